package models

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageBase64 *string `json:"imageBase64"`
}

type CreateGarmentRequest struct {
	Name string `json:"name" binding:"required"`
	UID  string `json:"uid" binding:"required"`
}

type UpdateGarmentAnimationRequest struct {
	AnimationID string `json:"animation_id" binding:"required"`
}

type TokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
