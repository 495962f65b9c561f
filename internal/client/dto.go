package client

type ApproveRequest struct {
	Choice string `json:"choice"`
}

type ApproveResponse struct {
	Status string `json:"status"`
	Choice string `json:"choice,omitempty"`
}

type SavePolicyResponse struct {
	Status string `json:"status"`
}
