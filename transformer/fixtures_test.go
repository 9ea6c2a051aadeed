package transformer_test

import (
	"math/big"

	"github.com/shopspring/decimal"
)

type phoneBook struct {
	PhoneNumbers []string
}

type user struct {
	ID     int
	Name   string
	Age    int
	Nested *phoneBook
	Tags   []string
}

type userDTO struct {
	ID     int
	Name   string
	Age    int
	Nested *phoneBook
	Tags   []string
}

func sampleUser() user {
	return user{
		ID:     7,
		Name:   "Ada",
		Age:    36,
		Nested: &phoneBook{PhoneNumbers: []string{"+44 20 7946 0000", "+44 20 7946 0001"}},
		Tags:   []string{"admin", "math"},
	}
}

// coordinates can only be built by its constructor.
type coordinates struct {
	lat, lng float64
}

func newCoordinates(lat, lng float64) coordinates {
	return coordinates{lat: lat, lng: lng}
}

func (c coordinates) Lat() float64 { return c.lat }
func (c coordinates) Lng() float64 { return c.lng }

// wallet has an owner fixed at construction and exported mutable fields.
type wallet struct {
	owner   string
	Balance int
	Coins   []int
}

func newWallet(owner string) *wallet {
	return &wallet{owner: owner}
}

func (w *wallet) Owner() string { return w.owner }

type ticket struct {
	code string
	seat int
}

func (ticket) NewBuilder() any { return &ticketBuilder{} }

type ticketBuilder struct {
	t ticket
}

func (b *ticketBuilder) Code(code string) *ticketBuilder {
	b.t.code = code
	return b
}

func (b *ticketBuilder) Seat(seat int) *ticketBuilder {
	b.t.seat = seat
	return b
}

func (b *ticketBuilder) Build() ticket { return b.t }

type booking struct {
	Code string
	Seat int
}

type contact struct {
	Name string
}

type contactDTO struct {
	Name  string
	Age   int
	Email string
	Phone *string
}

type contactTypo struct {
	Names string
}

type aged struct {
	Name string
	Age  int
}

type item struct {
	ID   int
	Name string
}

type itemDTO struct {
	Identifier int
	Name       string
}

type rawItem struct {
	ID   string
	Name string
}

type flatUser struct {
	Name         string
	PhoneNumbers []string
}

type lineItem struct {
	Code string
}

type order struct {
	Items []lineItem
}

type orderCodes struct {
	Codes []string
}

type rawPayment struct {
	ID    string
	Total *big.Int
}

type payment struct {
	ID    int
	Total decimal.Decimal
}

type price struct {
	amount   int64
	currency string
}

func newPrice(amount int64, currency string) price {
	return price{amount: amount, currency: currency}
}

type priceSource struct {
	Amount   string
	Currency string
}

type signupForm struct {
	Email string
	Name  string
}

type signup struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required"`
}

type member struct {
	Name string
}

type team struct {
	Name string
	Lead *member
}

type node struct {
	Name string
	Next *node
}
