// Package ads sells promotion placements to providers.
package ads

import (
	"github.com/shopspring/decimal"
)

// Duration is how long a placement runs.
type Duration string

const (
	Daily   Duration = "daily"
	Weekly  Duration = "weekly"
	Monthly Duration = "monthly"
)

// Durations lists the purchasable durations in display order.
var Durations = []Duration{Daily, Weekly, Monthly}

// Valid reports whether d is a known duration.
func (d Duration) Valid() bool {
	return d == Daily || d == Weekly || d == Monthly
}

// Label is the Arabic selector text.
func (d Duration) Label() string {
	switch d {
	case Daily:
		return "يومي"
	case Weekly:
		return "أسبوعي"
	case Monthly:
		return "شهري"
	}
	return string(d)
}

// Per is the Arabic "per period" suffix shown under a price.
func (d Duration) Per() string {
	switch d {
	case Daily:
		return "يومياً"
	case Weekly:
		return "أسبوعياً"
	case Monthly:
		return "شهرياً"
	}
	return ""
}

// Plan is one placement on sale. Prices are in EGP.
type Plan struct {
	ID          string
	Title       string
	Label       string
	Description string
	Reach       string
	Features    []string
	Pricing     map[Duration]decimal.Decimal
}

// Price returns the plan price for d.
func (p Plan) Price(d Duration) (decimal.Decimal, bool) {
	price, ok := p.Pricing[d]
	return price, ok
}

func pricing(daily, weekly, monthly int64) map[Duration]decimal.Decimal {
	return map[Duration]decimal.Decimal{
		Daily:   decimal.NewFromInt(daily),
		Weekly:  decimal.NewFromInt(weekly),
		Monthly: decimal.NewFromInt(monthly),
	}
}

var plans = []Plan{
	{
		ID:          "featured",
		Title:       "إعلان مميز",
		Label:       "مميز",
		Description: "الظهور في أعلى نتائج البحث لضمان أقصى مشاهدة.",
		Reach:       "20,000+ مستخدم",
		Features:    []string{"الظهور في أعلى نتائج البحث", "استهداف ذكي بالذكاء الاصطناعي", "إحصائيات مفصلة", "دعم مخصص"},
		Pricing:     pricing(35, 200, 750),
	},
	{
		ID:          "sidebar",
		Title:       "إعلان جانبي",
		Label:       "جانبي",
		Description: "ظهور ثابت في الشريط الجانبي على نسخة سطح المكتب.",
		Reach:       "10,000+ مستخدم",
		Features:    []string{"ظهور ثابت في الشريط الجانبي", "استهداف جغرافي", "تقارير أسبوعية", "دعم أساسي"},
		Pricing:     pricing(25, 150, 500),
	},
	{
		ID:          "banner",
		Title:       "إعلان بالأسفل",
		Label:       "بانر",
		Description: "اعرض خدمتك في البانر الإعلاني أسفل الصفحة.",
		Reach:       "5,000+ مستخدم",
		Features:    []string{"ظهور في البانر السفلي", "استهداف أساسي", "إحصائيات بسيطة", "دعم أساسي"},
		Pricing:     pricing(15, 90, 300),
	},
}

// Plans returns the catalog.
func Plans() []Plan {
	return append([]Plan(nil), plans...)
}

// FindPlan looks a plan up by id.
func FindPlan(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
