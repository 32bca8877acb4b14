package request

type ApplyManagerRequest struct {
	PitchIDs []string `json:"pitch_ids" validate:"required,min=1,max=20,dive,uuid"`
}
