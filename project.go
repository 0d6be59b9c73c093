package reel

import "time"

// Category is the content category of a project.
type Category string

const (
	CategoryChildren    Category = "Children"
	CategoryInformative Category = "Informative"
	CategoryFiction     Category = "Fiction"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryChildren, CategoryInformative, CategoryFiction}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Project is a content series with a publishing frequency.
type Project struct {
	ID        string
	Name      string
	Frequency int // videos per week
	Category  Category
	CreatedAt time.Time
}

// ProjectInput carries the fields needed to create a project.
type ProjectInput struct {
	Name      string
	Frequency int
	Category  Category
}

// User is the signed-in account.
type User struct {
	UID            string
	Username       string
	ProfilePicture string
	PhoneNumber    string
}

// Tokens is an access/refresh token pair issued by the backend.
type Tokens struct {
	Access  string
	Refresh string
}
