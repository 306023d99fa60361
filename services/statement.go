package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/utils"
)

// Statement adalah ringkasan tab yang bisa dicetak.
type Statement struct {
	Reference string
	Tab       *models.Tab
	Purchases []models.Purchase
	Total     decimal.Decimal
	Generated time.Time
}

func (l *Ledger) BuildStatement(ctx context.Context, tabID uint) (*Statement, error) {
	tab, err := l.GetTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	purchases, err := l.GetPurchases(ctx, tab)
	if err != nil {
		return nil, err
	}
	total, err := l.GetAmount(ctx, tab)
	if err != nil {
		return nil, err
	}

	now := l.clock()
	return &Statement{
		Reference: fmt.Sprintf("TAB/%s/%06d/%s", now.Format("20060102"), tab.ID, uuid.NewString()[:8]),
		Tab:       tab,
		Purchases: purchases,
		Total:     total,
		Generated: now,
	}, nil
}

// RenderStatementPDF writes st as a one-column A5 statement.
func RenderStatementPDF(w io.Writer, st *Statement) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Tab statement "+st.Reference, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Cantina", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, st.Reference, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	customer := ""
	if st.Tab.Customer != nil {
		customer = st.Tab.Customer.Name()
	}
	status := "open"
	if st.Tab.Closed != nil {
		status = "closed " + st.Tab.Closed.Format("2006-01-02 15:04")
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Customer: "+customer, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Opened: "+st.Tab.Opened.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Due: "+st.Tab.Due.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+status, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(32, 7, "Time", "B", 0, "L", false, 0, "")
	pdf.CellFormat(56, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(16, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(24, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range st.Purchases {
		amount := p.Amount.StringFixed(2)
		if p.Comped {
			amount = "comp"
		}
		pdf.CellFormat(32, 6, p.Time.Format("01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(56, 6, p.Item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(16, 6, strconv.Itoa(p.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, amount, "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, utils.FormatTotal(st.Total), "T", 1, "R", false, 0, "")

	return pdf.Output(w)
}
