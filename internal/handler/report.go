package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/repository"
	"github.com/aberkani/logistics-tracker/internal/service"
)

// Report handles GET /v1/detention/:id/report and streams a PDF settlement
// sheet for the event.
func (h *DetentionHandler) Report(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	rep, err := h.Svc.Report(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return errJSON(c, http.StatusNotFound, "detention event not found")
		}
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	buf, err := renderDetentionPDF(rep)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not render report")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="detention-report-%d.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", buf)
}

func renderDetentionPDF(rep service.DetentionReport) ([]byte, error) {
	ev := rep.Event

	m := pdf.NewMaroto(consts.Portrait, consts.Letter)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(12, func() {
			m.Col(12, func() {
				m.Text("DETENTION TIME REPORT", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("Report ID: DET-%05d", ev.ID), props.Text{
					Top:   2,
					Align: consts.Center,
					Size:  10,
				})
			})
		})
	})

	loadNumber, shipperName, shipperAddress := "N/A", "N/A", "N/A"
	if rep.Load != nil {
		loadNumber = rep.Load.LoadNumber
		shipperName = rep.Load.ShipperName
		shipperAddress = rep.Load.ShipperAddress
	}
	driverName, driverPhone := "N/A", "N/A"
	if rep.Driver != nil {
		driverName = rep.Driver.Name
		driverPhone = rep.Driver.Phone
	}
	checkout := "Still Active"
	if ev.CheckoutTime != nil {
		checkout = ev.CheckoutTime.Format(time.RFC1123)
	}

	section := func(title string) {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(title, props.Text{Top: 4, Style: consts.Bold, Size: 12})
			})
		})
	}
	field := func(label, value string) {
		m.Row(7, func() {
			m.Col(4, func() {
				m.Text(label, props.Text{Top: 1, Style: consts.Bold, Size: 10})
			})
			m.Col(8, func() {
				m.Text(value, props.Text{Top: 1, Size: 10})
			})
		})
	}

	section("Load Details")
	field("Load Number:", loadNumber)
	field("Shipper:", shipperName)
	field("Shipper Address:", shipperAddress)

	section("Driver Details")
	field("Driver:", driverName)
	field("Phone:", driverPhone)

	section("Detention Summary")
	field("Check-In Time:", ev.CheckinTime.Format(time.RFC1123))
	field("Check-Out Time:", checkout)
	field("Free Time:", fmt.Sprintf("%d minutes", ev.FreeTimeMinutes))
	field("Total Detention Time:", fmt.Sprintf("%d minutes (%.2f hours)",
		ev.DetentionMinutes, float64(ev.DetentionMinutes)/60))
	field("Rate:", fmt.Sprintf("$%.2f/hour", ev.DetentionRate))
	field("Status:", strings.ToUpper(ev.Status))
	if ev.Notes != nil && *ev.Notes != "" {
		field("Notes:", *ev.Notes)
	}

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("TOTAL AMOUNT OWED: $%.2f", ev.DetentionAmount), props.Text{
				Top:   5,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  13,
			})
		})
	})
	m.Row(10, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC1123)), props.Text{
				Top:   4,
				Align: consts.Center,
				Size:  8,
			})
		})
	})

	out, err := m.Output()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
