package request

type Comment struct {
	Text string `json:"text" binding:"required"` // for CREATE and EDIT
}

type Moderation struct {
	Approve *bool `json:"approve" binding:"required"`
}
