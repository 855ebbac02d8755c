// Package coupons holds the promotional offer catalog, the per-appointment
// selector, and the flat string codec used to persist coupon snapshots on
// appointment records.
package coupons

import "strings"

// Coupon is a single promotional offer. The catalog is fixed at process
// start; coupons are never persisted on their own, only snapshotted into
// appointments.
type Coupon struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// scarcePartner marks the partner whose coupons are single-use across
// appointments.
const scarcePartner = "pharmeasy"

// IsScarce reports whether this coupon belongs to the single-use partner.
func (c Coupon) IsScarce() bool {
	return strings.Contains(strings.ToLower(c.Name), scarcePartner)
}

// Partner extracts the partner name (the segment before the first " - ").
func (c Coupon) Partner() string {
	if i := strings.Index(c.Name, " - "); i > 0 {
		return c.Name[:i]
	}
	return c.Name
}

var catalog = []Coupon{
	{
		ID:          1,
		Name:        "Pharmeasy - Flat 24% Off on Medicines",
		Code:        "AFADM24",
		Link:        "https://bitli.in/ogAv8eB",
		Description: "Pharmeasy Get Flat 24% Off on Medicines Using Code: AFADM24",
	},
	{
		ID:          2,
		Name:        "Pharmeasy - Flat 20% Off on first 3 orders",
		Code:        "AF20",
		Link:        "https://bitli.in/ogAv8eB",
		Description: "Pharmeasy Flat 20% Off your 1st three Medicine Order over Rs 999",
	},
	{
		ID:          3,
		Name:        "Truemeds - Flat 25% Off for New Users",
		Code:        "CK25",
		Link:        "https://bitli.in/xbejYP5",
		Description: "Get Flat 25% Off on Orders Above Rs 1399 (New Users Only)",
	},
	{
		ID:          4,
		Name:        "Minimalist - Flat 5% Off",
		Code:        "EK5",
		Link:        "https://bitli.in/ZtI2T63",
		Description: "Get Flat 5% Off Code | Use Code: 'EK5'",
	},
	{
		ID:          5,
		Name:        "The Ayurveda Company - Explore Ayurveda Products",
		Link:        "https://bitli.in/D6ts8mn",
		Description: "Skincare and Lifestyle Products based on Ayurveda & Modern Science",
	},
	{
		ID:          6,
		Name:        "Beardo - Flat 20% Off Sitewide",
		Code:        "BEARDO20",
		Link:        "https://bitli.in/6K4JnCY",
		Description: "Exclusive selection of hair, beard, moustache, skin & face products.",
	},
	{
		ID:          7,
		Name:        "Clovia - Rs 300 Off on Orders above Rs 1299",
		Code:        "CLOVIA300",
		Link:        "https://bitli.in/Wyeq2Sw",
		Description: "Rs 300 Off on Orders above Rs 1299 | Use Code: CLOVIA300",
	},
	{
		ID:          8,
		Name:        "Wow Science - 15% Off Sitewide",
		Code:        "WOW15",
		Link:        "https://bitli.in/mr1nCEw",
		Description: "Get 15% Off sitewide | Use Code: WOW15",
	},
	{
		ID:          9,
		Name:        "Nature Derma - Flat 10% Off",
		Code:        "ND10",
		Link:        "https://bitli.in/nuk1xDP",
		Description: "Get Flat 10% Off on Select Products",
	},
	{
		ID:          10,
		Name:        "MamaEarth - Flat Rs 500 Cashback",
		Code:        "FLAT500",
		Link:        "https://bitli.in/elNNfHp",
		Description: "Shop for Rs 999 And get Flat Rs 500 Cashback",
	},
	{
		ID:          11,
		Name:        "Blue Tea - Flat Rs 100 Cashback",
		Code:        "TEATIME100",
		Link:        "https://bitli.in/d5XIQiw",
		Description: "Get Flat Rs 100 off on orders above RS 799",
	},
}

// Catalog returns a copy of the shipped offer list.
func Catalog() []Coupon {
	out := make([]Coupon, len(catalog))
	copy(out, catalog)
	return out
}
