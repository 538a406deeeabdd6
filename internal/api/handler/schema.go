package handler

type signupRequest struct {
	Name     string `form:"name"     validate:"required"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Bio      string `form:"bio"      validate:"max=500"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type likeRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

type commentRequest struct {
	UserID  int64  `json:"userId"  validate:"required,gt=0"`
	Content string `json:"content" validate:"required,max=500"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type likesResponse struct {
	Likes int64 `json:"likes"`
}

type errorResponse struct {
	Error string `json:"error"`
}
