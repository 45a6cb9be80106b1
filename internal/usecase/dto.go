package usecase

import "io"

// Principal é o usuário autenticado, repassado explicitamente aos use cases.
type Principal struct {
	UserID string
	Email  string
}

type ImportLeadsInput struct {
	Principal Principal
	Filename  string
	File      io.Reader
}

type LeadFilterInput struct {
	Query  string `json:"query"`
	Status string `json:"status"`
	Source string `json:"source"`
	From   string `json:"from"`
	To     string `json:"to"`
}
