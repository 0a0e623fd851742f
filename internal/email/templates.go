package email

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

// Template models are built by pure functions from order/contact data, then
// rendered separately, so notification content can be tested without any
// delivery mechanism.

type OrderItemModel struct {
	Name      string
	Variant   string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type OrderConfirmationModel struct {
	OrderNumber    string
	OrderDate      string
	CustomerName   string
	Items          []OrderItemModel
	Subtotal       string
	DeliveryCharge string
	FreeDelivery   bool
	Total          string
	Address        string
	City           string
	Province       string
	PostalCode     string
	Phone          string
	Year           int
}

type StatusUpdateModel struct {
	Heading     string
	Message     string
	FirstName   string
	OrderNumber string
	Status      string
	Total       string
	ProfileURL  string
	Year        int
}

type ContactConfirmationModel struct {
	Name    string
	Subject string
	Message string
	Year    int
}

type ContactReplyModel struct {
	Name            string
	ReplyMessage    string
	OriginalMessage string
	Year            int
}

// NewOrderConfirmationModel maps an order to the confirmation template model.
func NewOrderConfirmationModel(order models.Order) OrderConfirmationModel {
	items := make([]OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemModel{
			Name:      item.Name,
			Variant:   itemVariant(item),
			Quantity:  item.Quantity,
			UnitPrice: FormatAmount(item.Price),
			LineTotal: FormatAmount(item.Price * float64(item.Quantity)),
		})
	}
	return OrderConfirmationModel{
		OrderNumber:    order.OrderNumber,
		OrderDate:      order.CreatedAt.Format("January 2, 2006"),
		CustomerName:   order.Customer.FirstName + " " + order.Customer.LastName,
		Items:          items,
		Subtotal:       FormatAmount(order.Pricing.Subtotal),
		DeliveryCharge: FormatAmount(order.Pricing.DeliveryCharge),
		FreeDelivery:   order.Pricing.DeliveryCharge == 0,
		Total:          FormatAmount(order.Pricing.Total),
		Address:        order.Customer.Address,
		City:           order.Customer.City,
		Province:       order.Customer.Province,
		PostalCode:     order.Customer.PostalCode,
		Phone:          order.Customer.Phone,
		Year:           time.Now().Year(),
	}
}

type statusCopy struct {
	heading string
	message string
}

var statusCopyByStatus = map[string]statusCopy{
	models.OrderStatusProcessing: {
		heading: "Order Processing",
		message: "Your order is now being processed and will be shipped soon.",
	},
	models.OrderStatusShipped: {
		heading: "Order Shipped",
		message: "Great news! Your order has been shipped and is on its way to you.",
	},
	models.OrderStatusDelivered: {
		heading: "Order Delivered",
		message: "Your order has been successfully delivered. Thank you for shopping with us!",
	},
	models.OrderStatusCancelled: {
		heading: "Order Cancelled",
		message: "Your order has been cancelled. If you have any questions, please contact us.",
	},
}

// NewStatusUpdateModel maps an order and its new status to the status email
// model. The second return is false for statuses with no customer-facing copy
// (pending has none, matching the historical behavior).
func NewStatusUpdateModel(order models.Order, status, frontendURL string) (StatusUpdateModel, bool) {
	copyText, ok := statusCopyByStatus[status]
	if !ok {
		return StatusUpdateModel{}, false
	}
	return StatusUpdateModel{
		Heading:     copyText.heading,
		Message:     copyText.message,
		FirstName:   order.Customer.FirstName,
		OrderNumber: order.OrderNumber,
		Status:      strings.ToUpper(status),
		Total:       FormatAmount(order.Pricing.Total),
		ProfileURL:  strings.TrimRight(frontendURL, "/") + "/profile",
		Year:        time.Now().Year(),
	}, true
}

func NewContactConfirmationModel(contact models.Contact) ContactConfirmationModel {
	return ContactConfirmationModel{
		Name:    contact.Name,
		Subject: contact.Subject,
		Message: contact.Message,
		Year:    time.Now().Year(),
	}
}

func NewContactReplyModel(contact models.Contact, reply string) ContactReplyModel {
	return ContactReplyModel{
		Name:            contact.Name,
		ReplyMessage:    reply,
		OriginalMessage: contact.Message,
		Year:            time.Now().Year(),
	}
}

func itemVariant(item models.OrderItem) string {
	details := make([]string, 0, 2)
	if item.Color != "" {
		details = append(details, "Color: "+item.Color)
	}
	if item.Size != "" {
		details = append(details, "Size: "+item.Size)
	}
	return strings.Join(details, " | ")
}

// FormatAmount renders a rupee amount with thousands separators, dropping a
// trailing ".00" the way the storefront displays prices.
func FormatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")

	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

var (
	orderConfirmationTmpl = template.Must(template.New("orderConfirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #d2c1b6 0%, #b8a599 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: #fff; margin: 0; font-size: 28px;">✨ Classic Carrry</h1>
    <p style="color: #fff; margin: 10px 0 0 0; font-size: 16px;">Order Confirmation</p>
  </div>
  <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
    <h2 style="color: #333; margin-top: 0;">Thank You for Your Order! 🎉</h2>
    <p>Dear <strong>{{.CustomerName}}</strong>,</p>
    <p>Your order has been successfully placed and is being processed. Here are your order details:</p>
    <div style="background: #fff; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #d2c1b6;">Order Details</h3>
      <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
      <p><strong>Order Date:</strong> {{.OrderDate}}</p>
    </div>
    <div style="background: #fff; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #d2c1b6;">Items Ordered</h3>
      <table style="width: 100%; border-collapse: collapse;">
        {{range .Items}}<tr>
          <td style="padding: 10px; border-bottom: 1px solid #eee;">
            <strong>{{.Name}}</strong>{{if .Variant}}<br><small style="color: #666;">{{.Variant}}</small>{{end}}<br>
            <small style="color: #888;">Quantity: {{.Quantity}} × Rs {{.UnitPrice}}</small>
          </td>
          <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;"><strong>Rs {{.LineTotal}}</strong></td>
        </tr>
        {{end}}<tr>
          <td style="padding: 10px;"><strong>Subtotal:</strong></td>
          <td style="padding: 10px; text-align: right;"><strong>Rs {{.Subtotal}}</strong></td>
        </tr>
        <tr>
          <td style="padding: 10px;">Delivery Charge:</td>
          <td style="padding: 10px; text-align: right;">{{if .FreeDelivery}}<span style="color: #22c55e; font-weight: bold;">FREE 🎁</span>{{else}}Rs {{.DeliveryCharge}}{{end}}</td>
        </tr>
        <tr style="background: #f0f0f0;">
          <td style="padding: 15px; font-size: 18px;"><strong>Total:</strong></td>
          <td style="padding: 15px; text-align: right; font-size: 18px; color: #d2c1b6;"><strong>Rs {{.Total}}</strong></td>
        </tr>
      </table>
    </div>
    <div style="background: #fff; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #d2c1b6;">Delivery Address</h3>
      <p style="margin: 5px 0;"><strong>{{.CustomerName}}</strong></p>
      <p style="margin: 5px 0;">{{.Address}}</p>
      <p style="margin: 5px 0;">{{.City}}, {{.Province}}</p>
      {{if .PostalCode}}<p style="margin: 5px 0;">{{.PostalCode}}</p>{{end}}
      <p style="margin: 5px 0;"><strong>Phone:</strong> {{.Phone}}</p>
    </div>
    <div style="text-align: center; padding: 20px; border-top: 2px solid #eee; margin-top: 30px;">
      <p style="color: #999; font-size: 12px; margin: 5px 0;">This is an automated email. Please do not reply to this message.</p>
      <p style="color: #999; font-size: 12px; margin: 5px 0;">© {{.Year}} Classic Carrry. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`))

	ownerNotificationTmpl = template.Must(template.New("ownerNotification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #2C2C2C; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: #fff; margin: 0; font-size: 24px;">🔔 New Order Received</h1>
  </div>
  <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
    <div style="background: #fff; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #8B7355;">Order {{.OrderNumber}}</h3>
      <p><strong>Date:</strong> {{.OrderDate}}</p>
      <p><strong>Customer:</strong> {{.CustomerName}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Address:</strong> {{.Address}}, {{.City}}, {{.Province}}{{if .PostalCode}} {{.PostalCode}}{{end}}</p>
    </div>
    <div style="background: #fff; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #8B7355;">Items</h3>
      <table style="width: 100%; border-collapse: collapse;">
        {{range .Items}}<tr>
          <td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}{{if .Variant}} ({{.Variant}}){{end}} × {{.Quantity}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">Rs {{.LineTotal}}</td>
        </tr>
        {{end}}<tr>
          <td style="padding: 12px; font-size: 16px;"><strong>Total:</strong></td>
          <td style="padding: 12px; text-align: right; font-size: 16px;"><strong>Rs {{.Total}}</strong></td>
        </tr>
      </table>
    </div>
  </div>
</body>
</html>`))

	statusUpdateTmpl = template.Must(template.New("statusUpdate").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
  <div style="background: linear-gradient(135deg, #8B7355 0%, #A68A6F 100%); padding: 30px; border-radius: 10px 10px 0 0; text-align: center;">
    <h1 style="color: white; margin: 0; font-size: 28px;">Classic Carrry</h1>
  </div>
  <div style="background-color: white; padding: 30px; border-radius: 0 0 10px 10px;">
    <h2 style="color: #2C2C2C; margin-bottom: 20px;">{{.Heading}}</h2>
    <p style="color: #6B7280; font-size: 16px; line-height: 1.6;">Hello {{.FirstName}},</p>
    <p style="color: #6B7280; font-size: 16px; line-height: 1.6; margin-bottom: 30px;">{{.Message}}</p>
    <div style="background-color: #f9fafb; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <h3 style="color: #2C2C2C; margin-bottom: 15px;">Order Details</h3>
      <p style="color: #6B7280; margin: 5px 0;"><strong>Order Number:</strong> {{.OrderNumber}}</p>
      <p style="color: #6B7280; margin: 5px 0;"><strong>Status:</strong> <span style="color: #8B7355; font-weight: bold;">{{.Status}}</span></p>
      <p style="color: #6B7280; margin: 5px 0;"><strong>Total Amount:</strong> Rs {{.Total}}</p>
    </div>
    <div style="text-align: center; margin-top: 30px;">
      <a href="{{.ProfileURL}}" style="background: linear-gradient(135deg, #8B7355 0%, #A68A6F 100%); color: white; padding: 12px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; display: inline-block;">View Order Details</a>
    </div>
    <p style="color: #9CA3AF; font-size: 14px; margin-top: 30px; text-align: center;">If you have any questions, contact us at classiccarrry@gmail.com</p>
  </div>
</div>`))

	contactConfirmationTmpl = template.Must(template.New("contactConfirmation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #8B7355 0%, #6B5744 100%); padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0;">Classic Carrry</h1>
  </div>
  <div style="padding: 30px; background: #f9f9f9;">
    <h2 style="color: #333;">Thank you for reaching out!</h2>
    <p style="color: #666; line-height: 1.6;">Hi {{.Name}},</p>
    <p style="color: #666; line-height: 1.6;">We've received your message and our team will get back to you as soon as possible.</p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="color: #8B7355; margin-top: 0;">Your Message:</h3>
      <p style="color: #666;"><strong>Subject:</strong> {{.Subject}}</p>
      <p style="color: #666; line-height: 1.6;">{{.Message}}</p>
    </div>
    <p style="color: #666; line-height: 1.6;">Best regards,<br><strong>Classic Carrry Team</strong></p>
  </div>
  <div style="background: #333; padding: 20px; text-align: center; color: white; font-size: 12px;">
    <p>© {{.Year}} Classic Carrry. All rights reserved.</p>
  </div>
</div>`))

	contactReplyTmpl = template.Must(template.New("contactReply").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #8B7355 0%, #6B5744 100%); padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0;">Classic Carrry</h1>
  </div>
  <div style="padding: 30px; background: #f9f9f9;">
    <h2 style="color: #333;">Response to your inquiry</h2>
    <p style="color: #666; line-height: 1.6;">Hi {{.Name}},</p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p style="color: #666; line-height: 1.6;">{{.ReplyMessage}}</p>
    </div>
    <div style="background: #f5f5f5; padding: 15px; border-radius: 8px; margin: 20px 0;">
      <p style="color: #999; font-size: 12px; margin: 0;"><strong>Your original message:</strong></p>
      <p style="color: #666; line-height: 1.6; margin: 10px 0 0 0;">{{.OriginalMessage}}</p>
    </div>
    <p style="color: #666; line-height: 1.6;">Best regards,<br><strong>Classic Carrry Team</strong></p>
  </div>
  <div style="background: #333; padding: 20px; text-align: center; color: white; font-size: 12px;">
    <p>© {{.Year}} Classic Carrry. All rights reserved.</p>
  </div>
</div>`))
)

func RenderOrderConfirmation(model OrderConfirmationModel) (string, error) {
	return render(orderConfirmationTmpl, model)
}

func RenderOwnerNotification(model OrderConfirmationModel) (string, error) {
	return render(ownerNotificationTmpl, model)
}

func RenderStatusUpdate(model StatusUpdateModel) (string, error) {
	return render(statusUpdateTmpl, model)
}

func RenderContactConfirmation(model ContactConfirmationModel) (string, error) {
	return render(contactConfirmationTmpl, model)
}

func RenderContactReply(model ContactReplyModel) (string, error) {
	return render(contactReplyTmpl, model)
}

func render(tmpl *template.Template, model any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, model); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
