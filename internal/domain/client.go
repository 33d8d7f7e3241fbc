package domain

type Client struct {
	ID       int64
	Name     string
	Email    string
	Document string
	Phone    string
	Active   bool
}
