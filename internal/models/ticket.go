package models

// Detail is one attribute record on a ticket.
type Detail struct {
	C int `json:"c"`
	D int `json:"d"`
}

type Ticket struct {
	ID      string   `json:"id"`
	Creator string   `json:"creator"`
	Title   string   `json:"title"`
	Details []Detail `json:"details"`
}

// Sale is created alongside a ticket by the creation workflow and points back
// at it both through the Ticket field and through a SALE_RELATE graph edge.
type Sale struct {
	ID     string  `json:"id"`
	Ticket *Ticket `json:"ticket,omitempty"`
	User   string  `json:"user"`
}

type CreateTicketInput struct {
	Title   string   `json:"title"`
	Details []Detail `json:"details"`
}
