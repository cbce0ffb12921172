package email

import (
	"time"

	"github.com/atlasware/souq/internal/domain"
)

// EmailTemplate defines the interface for email templates
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// OrderConfirmationEmail represents an order confirmation email
type OrderConfirmationEmail struct {
	Email        string
	CustomerName string
	OrderNumber  string
	OrderDate    time.Time

	Lines []OrderLine

	Subtotal    string // formatted MAD amounts
	Discount    string
	ShippingFee string
	Total       string

	ShipFullName    string
	ShipPhone       string
	ShipCity        string
	ShipStreet      string
	DeliveryCompany string
}

func (e OrderConfirmationEmail) Subject() string {
	return "Order Confirmation - " + e.OrderNumber
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation.html"
}

// OrderLine is one purchased line as shown in the email.
type OrderLine struct {
	ProductTitle string
	VariantName  string
	SizeLabel    string
	Quantity     int32
	UnitPrice    string
	LineTotal    string
}

// WelcomeEmail greets a freshly registered account.
type WelcomeEmail struct {
	Email     string
	FirstName string
}

func (e WelcomeEmail) Subject() string {
	return "Welcome to Souq"
}

func (e WelcomeEmail) TemplateName() string {
	return "welcome.html"
}

// NewOrderConfirmation builds the email view of a committed order.
func NewOrderConfirmation(user domain.User, order domain.Order) OrderConfirmationEmail {
	data := OrderConfirmationEmail{
		Email:        user.Email,
		CustomerName: user.FullName(),
		OrderNumber:  order.Number,
		OrderDate:    order.CreatedAt,

		Subtotal:    domain.FormatMAD(order.SubtotalCentimes),
		Discount:    domain.FormatMAD(order.DiscountCentimes),
		ShippingFee: domain.FormatMAD(order.ShippingFeeCentimes),
		Total:       domain.FormatMAD(order.TotalCentimes),

		ShipFullName:    order.ShipFullName,
		ShipPhone:       order.ShipPhone,
		ShipCity:        order.ShipCity,
		ShipStreet:      order.ShipStreet,
		DeliveryCompany: order.DeliveryCompany,
	}

	for _, line := range order.Lines {
		data.Lines = append(data.Lines, OrderLine{
			ProductTitle: line.ProductTitle,
			VariantName:  line.VariantName,
			SizeLabel:    line.SizeLabel,
			Quantity:     line.Quantity,
			UnitPrice:    domain.FormatMAD(line.UnitPriceCentimes),
			LineTotal:    domain.FormatMAD(line.LineTotalCentimes()),
		})
	}

	return data
}
