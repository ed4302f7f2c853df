// Package export renders sellers as the CSV file operators download.
package export

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
)

const Header = "ID,Business Name,Contact Name,Email,Phone,VAT Type,VAT Number,City,Country,Shipping Method,Pricing Plan,Status,Ads Enabled,Hear About,Referred By,Created At"

// Filename is sellers-export-YYYY-MM-DD.csv for the UTC date of now.
func Filename(now time.Time) string {
	return "sellers-export-" + now.UTC().Format("2006-01-02") + ".csv"
}

// WriteCSV writes the header and one row per seller, lines joined by "\n"
// with no trailing newline. The id is written bare; every other field is
// wrapped in double quotes, with embedded quotes doubled.
func WriteCSV(w io.Writer, sellers []model.Seller) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return err
	}
	for _, s := range sellers {
		if _, err := bw.WriteString("\n" + Row(s)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func Row(s model.Seller) string {
	ads := "No"
	if s.ShowAdsOnWebsite {
		ads = "Yes"
	}
	fields := []string{
		or(s.BusinessName, "No Business Name"),
		s.FirstName + " " + s.LastName,
		s.Email,
		s.PhoneNumber,
		or(s.VatType, model.VatIndividual),
		s.VatNumber,
		s.City,
		s.Country,
		label(model.ShippingMethodLabels, or(s.ShippingMethod, model.ShippingIntegrated)),
		planLabel(s.PricingPlan),
		or(string(s.Status), string(model.SellerPending)),
		ads,
		label(model.HearAboutLabels, s.HearAboutSurf),
		or(s.ReferredBy, "N/A"),
		s.CreatedAt,
	}

	var b strings.Builder
	b.WriteString(s.ID)
	for _, f := range fields {
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	return b.String()
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// label maps a known code to its display label and passes anything else through.
func label(labels map[string]string, code string) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return code
}

func planLabel(plan string) string {
	if l, ok := model.PricingPlanLabels[plan]; ok {
		return l
	}
	return "Not specified"
}
