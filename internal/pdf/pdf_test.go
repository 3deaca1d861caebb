package pdf

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gilnokie-backend/internal/model"
)

var generated = time.Date(2025, 1, 12, 9, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestFormatters(t *testing.T) {
	testCases := []struct {
		name string
		got  string
		want string
	}{
		{name: "weight", got: Weight(decimal.RequireFromString("25.5")), want: "25.50 kg"},
		{name: "weight rounds", got: Weight(decimal.RequireFromString("1.005")), want: "1.01 kg"},
		{name: "currency small", got: Currency(decimal.RequireFromString("12.3")), want: "R 12.30"},
		{name: "currency thousands", got: Currency(decimal.RequireFromString("1234.56")), want: "R 1,234.56"},
		{name: "currency millions", got: Currency(decimal.RequireFromString("1234567")), want: "R 1,234,567.00"},
		{name: "currency negative", got: Currency(decimal.RequireFromString("-1500")), want: "-R 1,500.00"},
		{name: "date", got: Date(&generated), want: "12 Jan 2025"},
		{name: "nil date", got: Date(nil), want: "-"},
		{name: "empty text", got: text(strPtr(" ")), want: "-"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func jobCard(pieces int) *model.CustomerOrder {
	yarn := &model.YarnType{Code: "PES-150", Description: strPtr("Polyester 150 denier")}
	card := &model.CustomerOrder{
		JobCardNumber:        "JC-20250112-001",
		OrderDate:            generated,
		Status:               model.JobActive,
		QuantityRequired:     decimal.NewFromInt(500),
		TargetEfficiency:     decimal.NewFromInt(85),
		YarnAllocationStatus: model.YarnAllocationPending,
		EstimatedCost:        decimal.NewNullDecimal(decimal.NewFromInt(10000)),
		SellingPrice:         decimal.NewNullDecimal(decimal.NewFromInt(12500)),
		Notes:                strPtr("Rush order – deliver to Durban"),
		Customer:             &model.Customer{Name: "Acme Textiles"},
		FabricQuality: &model.FabricQuality{
			QualityCode: "Q-100",
			FabricContent: []model.FabricContent{
				{Percentage: decimal.NewFromInt(100), YarnType: yarn},
			},
		},
	}
	for i := 1; i <= pieces; i++ {
		card.Production = append(card.Production, model.ProductionInfo{
			PieceNumber:    fmt.Sprintf("2500001-%03d", i),
			Weight:         decimal.RequireFromString("24.75"),
			ProductionDate: generated,
		})
	}
	return card
}

func assertPDF(t *testing.T, out []byte, err error) {
	t.Helper()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output is not a PDF")
	assert.Greater(t, len(out), 500)
}

func TestJobCard(t *testing.T) {
	t.Run("few pieces", func(t *testing.T) {
		out, err := JobCard(jobCard(3), generated)
		assertPDF(t, out, err)
	})

	t.Run("more pieces than listed", func(t *testing.T) {
		out, err := JobCard(jobCard(25), generated)
		assertPDF(t, out, err)
	})

	t.Run("missing customer", func(t *testing.T) {
		card := jobCard(0)
		card.Customer = nil
		_, err := JobCard(card, generated)
		assert.ErrorIs(t, err, errIncomplete)
	})
}

func TestPackingList(t *testing.T) {
	card := jobCard(2)
	pl := &model.PackingList{
		PackingListNumber: "PL-20250112-001",
		PackingDate:       generated,
		NumberOfCartons:   2,
		TotalNetWeight:    decimal.RequireFromString("49.5"),
		TotalGrossWeight:  decimal.NewNullDecimal(decimal.RequireFromString("52")),
		PackingStatus:     model.PackingPending,
		JobCard:           card,
		Items: []model.PackingItem{
			{Production: &card.Production[0]},
			{Production: &card.Production[1]},
			{},
		},
	}
	out, err := PackingList(pl, generated)
	assertPDF(t, out, err)

	pl.JobCard = nil
	_, err = PackingList(pl, generated)
	assert.ErrorIs(t, err, errIncomplete)
}

func TestDeliveryNote(t *testing.T) {
	delivered := generated.Add(48 * time.Hour)
	dl := &model.Delivery{
		DeliveryNoteNumber: "DN-20250112-001",
		DeliveryMethod:     "Courier",
		DeliveryAddress:    "12 Mill Road\nDurban",
		DeliveryDate:       &delivered,
		CourierName:        strPtr("FastWay"),
		TrackingNumber:     strPtr("FW123"),
		DeliveryStatus:     model.Delivered,
		JobCard:            jobCard(0),
		PackingLists: []model.PackingList{
			{PackingListNumber: "PL-20250112-001", PackingDate: generated, NumberOfCartons: 2, TotalNetWeight: decimal.NewFromInt(50)},
		},
	}
	out, err := DeliveryNote(dl, generated)
	assertPDF(t, out, err)
}
