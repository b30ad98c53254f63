package orders

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"veloura/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/mongo"
)

func rupees(minor int64) string {
	return fmt.Sprintf("Rs %d.%02d", minor/100, minor%100)
}

// PrintInvoice renders a PDF invoice for one of the user's orders, with a QR
// carrying the order reference for support lookups.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID := ps.ByName("orderid")
	full, err := loadOrder(ctx, orderID, userID)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("PrintInvoice load error:", err)
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	qrPNG, err := qrcode.Encode("veloura:order:"+orderID, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Veloura Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", full.Order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", full.Order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Payment: %s (%s)", full.Order.PaymentMode, full.Order.PaymentStatus))
	pdf.Ln(8)
	if full.Address != nil {
		pdf.Cell(0, 10, fmt.Sprintf("Ship to: %s, %s, %s %s", full.Address.Name, full.Address.City, full.Address.State, full.Address.PostalCode))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(70, 8, "Product")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(40, 8, "Unit")
	pdf.Cell(40, 8, "Total")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	var itemsTotal int64
	for _, item := range full.Items {
		pdf.Cell(70, 8, item.ProductID)
		pdf.Cell(30, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(40, 8, rupees(item.Price))
		pdf.Cell(40, 8, rupees(item.TotalPrice))
		pdf.Ln(8)
		itemsTotal += item.TotalPrice
	}

	pdf.Ln(4)
	pdf.Cell(0, 8, fmt.Sprintf("Items: %s", rupees(itemsTotal)))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Delivery: %s", rupees(full.Order.TotalAmount-itemsTotal)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Grand Total: %s", rupees(full.Order.TotalAmount)))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+orderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
