package cartdto

type AddItemInput struct {
	UserID    string
	ProjectID string
	Quantity  int64
	UnitPrice int64
}

type UpdateItemInput struct {
	UserID    string
	ProjectID string
	Quantity  int64
}

type CheckoutInput struct {
	UserID        string
	PaymentMethod string
}
