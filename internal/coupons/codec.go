package coupons

import (
	"strconv"
	"strings"
)

// The persisted encoding is a flat delimited string kept for compatibility
// with existing appointment records: one coupon per `;`-separated segment,
// fields `|`-separated as id|name|code|link|description. There is no
// escaping, so fields containing either delimiter do not survive a round
// trip. Catalog entries are delimiter-free; anything else is on the caller.

const (
	fieldSep  = "|"
	couponSep = ";"
)

// Serialize encodes coupons into the flat storage string. A coupon with no
// code serializes with an empty code field.
func Serialize(list []Coupon) string {
	if len(list) == 0 {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, c := range list {
		parts = append(parts, strings.Join([]string{
			strconv.Itoa(c.ID), c.Name, c.Code, c.Link, c.Description,
		}, fieldSep))
	}
	return strings.Join(parts, couponSep)
}

// Deserialize decodes the flat storage string. Decoding is positional and
// trusting: truncated segments yield zero-valued trailing fields rather than
// an error, and "no code" and "empty code" both decode to "".
func Deserialize(encoded string) []Coupon {
	if encoded == "" {
		return nil
	}
	segments := strings.Split(encoded, couponSep)
	out := make([]Coupon, 0, len(segments))
	for _, segment := range segments {
		fields := strings.Split(segment, fieldSep)
		id, _ := strconv.Atoi(field(fields, 0))
		out = append(out, Coupon{
			ID:          id,
			Name:        field(fields, 1),
			Code:        field(fields, 2),
			Link:        field(fields, 3),
			Description: field(fields, 4),
		})
	}
	return out
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
