package transport

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required,max=256"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=256,nefield=OldPassword"`
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type StoreRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type CreateItemRequest struct {
	Name        string   `json:"name" validate:"required,max=80"`
	Description string   `json:"description" validate:"max=1000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	StoreID     uint     `json:"store_id" validate:"required"`
}

// UpsertItemRequest carries optional fields; creating a missing item still
// needs name, price and store_id.
type UpsertItemRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=80"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	StoreID     *uint    `json:"store_id" validate:"omitempty,gt=0"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type SearchQuery struct {
	Q    string `query:"q" validate:"required"`
	Page int    `query:"page" validate:"gte=0"`
	Size int    `query:"size" validate:"gte=0"`
}
