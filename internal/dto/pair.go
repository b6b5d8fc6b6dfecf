package dto

type PairRequest struct {
	DeviceID   string `json:"device_id" validate:"required"`
	DeviceName string `json:"device_name"`
	Secret     string `json:"secret" validate:"required"`
}

type PairResponse struct {
	Token string `json:"token"`
}
