package pdf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gilnokie-backend/internal/model"
)

// maxListedPieces bounds the production table of a job card.
const maxListedPieces = 10

var errIncomplete = errors.New("record is missing related data")

// JobCard renders a job card with its composition and first production records.
func JobCard(card *model.CustomerOrder, generated time.Time) ([]byte, error) {
	if card.Customer == nil || card.FabricQuality == nil {
		return nil, errIncomplete
	}
	d := newDocument("Job Card: "+card.JobCardNumber, generated)

	d.section("Order Information")
	d.row("Customer:", card.Customer.Name)
	d.row("Stock Reference:", text(card.StockReference))
	if card.OrderNumber != nil && *card.OrderNumber != "" {
		d.row("Order Number:", *card.OrderNumber)
	}
	d.row("Order Date:", Date(&card.OrderDate))
	d.row("Status:", strings.ToUpper(card.Status))

	q := card.FabricQuality
	d.section("Fabric Specification")
	d.row("Fabric Quality:", q.QualityCode)
	if q.Description != nil && *q.Description != "" {
		d.row("Description:", *q.Description)
	}
	rolls := "N/A"
	if card.RollCount != nil && *card.RollCount > 0 {
		rolls = strconv.Itoa(*card.RollCount)
	}
	d.row("Quantity Required:", fmt.Sprintf("%s (%s rolls)", Weight(card.QuantityRequired), rolls))
	if card.TargetWidth.Valid {
		d.row("Target Width:", card.TargetWidth.Decimal.String()+" cm")
	}
	if card.TargetGSM.Valid {
		d.row("Target GSM:", card.TargetGSM.Decimal.String())
	}

	if len(q.FabricContent) > 0 {
		d.section("Fabric Composition")
		rows := make([][]string, 0, len(q.FabricContent))
		for _, fc := range q.FabricContent {
			code, desc := "-", "-"
			if fc.YarnType != nil {
				code, desc = fc.YarnType.Code, text(fc.YarnType.Description)
			}
			rows = append(rows, []string{code, desc, fc.Percentage.String() + "%"})
		}
		d.table([]string{"Yarn Type", "Description", "Percentage"}, rows)
	}

	d.section("Production Details")
	if card.MachineAssigned != nil && *card.MachineAssigned != "" {
		d.row("Machine Assigned:", *card.MachineAssigned)
	}
	if !card.TargetEfficiency.IsZero() {
		d.row("Target Efficiency:", card.TargetEfficiency.String()+"%")
	}
	d.row("Yarn Allocation:", strings.ToUpper(card.YarnAllocationStatus))
	if card.EstimatedCost.Valid {
		d.row("Estimated Cost:", Currency(card.EstimatedCost.Decimal))
	}
	if card.SellingPrice.Valid {
		d.row("Selling Price:", Currency(card.SellingPrice.Decimal))
	}

	if n := len(card.Production); n > 0 {
		d.section("Production Records")
		listed := card.Production
		if n > maxListedPieces {
			listed = listed[:maxListedPieces]
		}
		rows := make([][]string, 0, len(listed))
		for _, p := range listed {
			rows = append(rows, []string{p.PieceNumber, Weight(p.Weight), orNA(p.QualityGrade), Date(&p.ProductionDate)})
		}
		d.table([]string{"Piece #", "Weight", "Grade", "Date"}, rows)
		if n > maxListedPieces {
			d.note(fmt.Sprintf("... and %d more pieces", n-maxListedPieces))
		}
	}

	if card.Notes != nil && *card.Notes != "" {
		d.section("Notes")
		d.paragraph(*card.Notes)
	}
	return d.bytes()
}

// PackingList renders a packing list with one row per packed piece.
func PackingList(pl *model.PackingList, generated time.Time) ([]byte, error) {
	if pl.JobCard == nil || pl.JobCard.Customer == nil {
		return nil, errIncomplete
	}
	d := newDocument("Packing List: "+pl.PackingListNumber, generated)

	d.section("Order Details")
	d.row("Job Card:", pl.JobCard.JobCardNumber)
	d.row("Customer:", pl.JobCard.Customer.Name)
	if pl.JobCard.FabricQuality != nil {
		d.row("Fabric Quality:", pl.JobCard.FabricQuality.QualityCode)
	}
	d.row("Packing Date:", Date(&pl.PackingDate))
	d.row("Status:", strings.ToUpper(pl.PackingStatus))
	d.row("Number of Cartons:", strconv.Itoa(pl.NumberOfCartons))
	d.row("Total Net Weight:", Weight(pl.TotalNetWeight))
	if pl.TotalGrossWeight.Valid {
		d.row("Total Gross Weight:", Weight(pl.TotalGrossWeight.Decimal))
	}

	d.section("Packed Items")
	rows := make([][]string, 0, len(pl.Items))
	for i, item := range pl.Items {
		piece, weight, grade := "-", "-", "N/A"
		if item.Production != nil {
			piece = item.Production.PieceNumber
			weight = Weight(item.Production.Weight)
			grade = orNA(item.Production.QualityGrade)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), piece, weight, grade})
	}
	d.table([]string{"Item #", "Piece Number", "Weight", "Quality Grade"}, rows)

	if pl.PackingNotes != nil && *pl.PackingNotes != "" {
		d.section("Packing Notes")
		d.paragraph(*pl.PackingNotes)
	}
	d.signatures("Packed By:", "Checked By:")
	return d.bytes()
}

// DeliveryNote renders a delivery note listing its packing lists.
func DeliveryNote(dl *model.Delivery, generated time.Time) ([]byte, error) {
	if dl.JobCard == nil || dl.JobCard.Customer == nil {
		return nil, errIncomplete
	}
	d := newDocument("Delivery Note: "+dl.DeliveryNoteNumber, generated)

	d.section("Delivery Information")
	d.row("Delivery Method:", dl.DeliveryMethod)
	d.row("Scheduled Date:", Date(dl.ScheduledDeliveryDate))
	if dl.DeliveryDate != nil {
		d.row("Actual Delivery Date:", Date(dl.DeliveryDate))
	}
	if dl.CourierName != nil && *dl.CourierName != "" {
		d.row("Courier:", *dl.CourierName)
	}
	if dl.TrackingNumber != nil && *dl.TrackingNumber != "" {
		d.row("Tracking Number:", *dl.TrackingNumber)
	}
	d.row("Status:", strings.ToUpper(dl.DeliveryStatus))

	d.section("Delivery Address")
	d.paragraph(dl.DeliveryAddress)

	d.section("Order Details")
	d.row("Job Card:", dl.JobCard.JobCardNumber)
	d.row("Customer:", dl.JobCard.Customer.Name)
	if dl.JobCard.FabricQuality != nil {
		d.row("Fabric Quality:", dl.JobCard.FabricQuality.QualityCode)
	}

	if len(dl.PackingLists) > 0 {
		d.section("Packing Lists Included")
		rows := make([][]string, 0, len(dl.PackingLists))
		for _, pl := range dl.PackingLists {
			rows = append(rows, []string{
				pl.PackingListNumber,
				Date(&pl.PackingDate),
				strconv.Itoa(pl.NumberOfCartons),
				Weight(pl.TotalNetWeight),
				strconv.Itoa(len(pl.Items)),
			})
		}
		d.table([]string{"Packing List #", "Date", "Cartons", "Net Weight", "Items"}, rows)
	}

	if dl.DeliveryNotes != nil && *dl.DeliveryNotes != "" {
		d.section("Delivery Notes")
		d.paragraph(*dl.DeliveryNotes)
	}
	d.signatures("Delivered By:", "Received By:")
	return d.bytes()
}
