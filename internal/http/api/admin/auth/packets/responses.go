package packets

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type ProfileResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}
