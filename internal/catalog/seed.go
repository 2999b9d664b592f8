package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// placeholderImage is served by the storefront asset pipeline.
const placeholderImage = "/api/placeholder/400/300"

// pcuSpecs are the electrical specifications shared by every MU1000 PCU.
var pcuSpecs = map[string]string{
	"Input Voltage":  "230V AC ±15%",
	"Output Voltage": "230V AC ±3%",
	"Frequency":      "50Hz ±3%",
	"Solar Input":    "Max 660Wp",
	"Efficiency":     ">90% SCC, >85% Inverter",
	"Dimensions":     "445 x 385 x 170 mm",
	"Warranty":       "2 Years PCU + 3 Years Battery",
}

// SeedProducts returns the Zuice catalog the storefront ships with.
func SeedProducts() []model.Product {
	base := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	return []model.Product{
		{
			ID:            "1",
			Name:          "Zuice MU1000 Solar Hybrid PCU - 50Ah",
			Category:      "Solar Hybrid PCU",
			Power:         "1KVA",
			Efficiency:    "90%",
			Price:         decimal.NewFromInt(45000),
			OriginalPrice: decimalPtr(55000),
			Discount:      18,
			Rating:        4.8,
			Reviews:       156,
			Stock:         25,
			Badge:         "Best Seller",
			Features: []string{
				"1KVA-12V PWM Solar Hybrid PCU",
				"Inbuilt LiFePo4 50Ah Battery",
				"Max 660Wp Solar Array",
				"2 Hours Backup (400W Load)",
				"LCD Display with Real-time Monitoring",
				"8+ Protection Features",
				"IP20 Enclosure Rating",
				"<40ms Changeover Time",
			},
			Specifications: withSpecs(map[string]string{"Battery Type": "LiFePo4 50Ah", "Weight": "18 kg"}),
			Images:         []string{placeholderImage, placeholderImage, placeholderImage},
			Description: "The Zuice MU1000 Solar Hybrid PCU with 50Ah LiFePo4 battery is perfect for small homes " +
				"and offices. It combines solar charging, battery backup, and grid power in one compact unit.",
			CreatedAt: base,
		},
		{
			ID:            "2",
			Name:          "Zuice MU1000 Pro - 86Ah Battery",
			Category:      "Solar Hybrid PCU",
			Power:         "1KVA",
			Efficiency:    "90%",
			Price:         decimal.NewFromInt(65000),
			OriginalPrice: decimalPtr(75000),
			Discount:      13,
			Rating:        4.9,
			Reviews:       89,
			Stock:         12,
			Badge:         "Pro Version",
			Features: []string{
				"1KVA-12V PWM Solar Hybrid PCU",
				"Inbuilt LiFePo4 86Ah Battery",
				"Max 660Wp Solar Array",
				"2.75 Hours Backup (400W Load)",
				"Advanced LCD Display",
				"Enhanced Protection Suite",
				"Professional Grade Components",
				"Extended Backup Duration",
			},
			Specifications: withSpecs(map[string]string{"Battery Type": "LiFePo4 86Ah", "Weight": "20 kg"}),
			Images:         []string{placeholderImage, placeholderImage, placeholderImage},
			Description: "The Zuice MU1000 Pro with 86Ah battery offers extended backup time for medium-sized " +
				"homes and small businesses with higher power requirements.",
			CreatedAt: base.AddDate(0, 2, 0),
		},
		{
			ID:            "3",
			Name:          "Zuice MU1000 Max - 100Ah Battery",
			Category:      "Solar Hybrid PCU",
			Power:         "1KVA",
			Efficiency:    "90%",
			Price:         decimal.NewFromInt(75000),
			OriginalPrice: decimalPtr(85000),
			Discount:      12,
			Rating:        4.9,
			Reviews:       67,
			Stock:         0,
			Badge:         "Maximum Backup",
			Features: []string{
				"1KVA-12V PWM Solar Hybrid PCU",
				"Inbuilt LiFePo4 100Ah Battery",
				"Max 660Wp Solar Array",
				"3.25 Hours Backup (400W Load)",
				"Premium LCD Display",
				"Complete Protection Suite",
				"Maximum Backup Duration",
				"Heavy-Duty Components",
			},
			Specifications: withSpecs(map[string]string{"Battery Type": "LiFePo4 100Ah", "Weight": "21 kg"}),
			Images:         []string{placeholderImage, placeholderImage, placeholderImage},
			Description: "The Zuice MU1000 Max with 100Ah battery provides maximum backup time for larger homes " +
				"and commercial applications requiring extended power backup.",
			CreatedAt: base.AddDate(0, 4, 0),
		},
		{
			ID:            "4",
			Name:          "Zuice MU1000 Monitoring Kit",
			Category:      "Accessories",
			Power:         "Monitoring System",
			Efficiency:    "Real-time",
			Price:         decimal.NewFromInt(8000),
			OriginalPrice: decimalPtr(10000),
			Discount:      20,
			Rating:        4.7,
			Reviews:       45,
			Stock:         40,
			Badge:         "Add-on",
			Features: []string{
				"Real-time System Monitoring",
				"Mobile App Integration",
				"Performance Analytics",
				"Fault Detection & Alerts",
				"Energy Usage Reports",
				"Remote System Control",
				"Historical Data Storage",
				"Easy Installation",
			},
			Specifications: map[string]string{
				"Connectivity":     "Wi-Fi, Bluetooth",
				"App Support":      "iOS, Android",
				"Data Storage":     "Cloud + Local",
				"Update Frequency": "Real-time",
				"Compatibility":    "All Zuice MU1000 Models",
				"Installation":     "Plug & Play",
				"Dimensions":       "120 x 80 x 25 mm",
				"Weight":           "200g",
				"Warranty":         "1 Year",
			},
			Images: []string{placeholderImage, placeholderImage},
			Description: "Advanced monitoring kit for Zuice MU1000 systems with mobile app integration and " +
				"real-time performance tracking.",
			CreatedAt: base.AddDate(0, 1, 0),
		},
	}
}

// PriceBounds returns a range starting at zero that covers every product
// price and never narrows the default upper bound.
func PriceBounds(products []model.Product) PriceRange {
	upper := DefaultMaxPrice
	for _, p := range products {
		if p.Price.GreaterThan(upper) {
			upper = p.Price
		}
	}
	return PriceRange{DefaultMinPrice, upper}
}

func withSpecs(extra map[string]string) map[string]string {
	specs := make(map[string]string, len(pcuSpecs)+len(extra))
	for k, v := range pcuSpecs {
		specs[k] = v
	}
	for k, v := range extra {
		specs[k] = v
	}
	return specs
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
