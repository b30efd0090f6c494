package dto

type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=string bool int json"`
}

type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}
