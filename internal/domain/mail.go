package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AccountCreatedMailData struct {
	Username string `json:"username"`
}

type AccountApprovedMailData struct {
	Username string `json:"username"`
}
