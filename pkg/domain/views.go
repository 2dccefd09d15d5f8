package domain

// View models returned by the API. Mapping from entities is explicit and
// hand-written; see the builders next to each service.

type BookDetail struct {
	Book
	Category      *Category `json:"category,omitempty"`
	Author        *Author   `json:"author,omitempty"`
	Ratings       []Rating  `json:"ratings,omitempty"`
	AverageRating float64   `json:"averageRating"`
}

type OrderSummary struct {
	Order
	Customer User `json:"customer"`
}

type PagedResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	PageCount  int `json:"pageCount"`
}

type TopCategory struct {
	Category  Category `json:"category"`
	BookCount int      `json:"bookCount"`
}

type StatsSummary struct {
	TotalBooks      int           `json:"totalBooks"`
	TotalCategories int           `json:"totalCategories"`
	TotalCustomers  int           `json:"totalCustomers"`
	TotalRevenues   float64       `json:"totalRevenues"`
	TopBooks        []Book        `json:"topBooks"`
	TopCategories   []TopCategory `json:"topCategories"`
}
