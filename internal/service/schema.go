package service

import (
	"errors"
	"fmt"

	"github.com/gmoran-dev/csv-price-updater/internal/domain"
)

var ErrMissingField = errors.New("missing required field")

// csvColumns is the full point-of-sale export header, in canonical order.
// The template endpoint and the validator both key off this list.
var csvColumns = []string{
	"itKey", "itVendorId", "itVendStyleCode", "itDesc", "catName",
	"itMetalColor", "itMetalFinish", "itMetalType", "itMetalWeight",
	"itSize", "itStyle", "itRetailPrice", "itLowestPrice", "itCurrentPrice",
	"itMfg", "itLength", "itMillimeter", "itFolioNumber", "itVendBarCode",
	"itSerialNumber", "imTitle", "imMetaTitle", "imMetaKeywords",
	"imMetaDescription", "imDescription", "imWebTags", "imBaseSKU",
	"imCategory", "wlkUrl",
}

// validateRow checks that every required column was present in the upload and
// returns the typed row. Empty values are fine; only a column absent from the
// header fails validation. Price fields stay opaque strings here.
func validateRow(values map[string]string) (domain.CsvRow, error) {
	for _, col := range csvColumns {
		if _, ok := values[col]; !ok {
			return domain.CsvRow{}, fmt.Errorf("%w: %s", ErrMissingField, col)
		}
	}
	return rowFromValues(values), nil
}

// rowFromValues builds a CsvRow from whatever columns are present. Used both
// for validated rows and as the best-effort row attached to a validation
// failure.
func rowFromValues(values map[string]string) domain.CsvRow {
	return domain.CsvRow{
		ItKey:             values["itKey"],
		ItVendorID:        values["itVendorId"],
		ItVendStyleCode:   values["itVendStyleCode"],
		ItDesc:            values["itDesc"],
		CatName:           values["catName"],
		ItMetalColor:      values["itMetalColor"],
		ItMetalFinish:     values["itMetalFinish"],
		ItMetalType:       values["itMetalType"],
		ItMetalWeight:     values["itMetalWeight"],
		ItSize:            values["itSize"],
		ItStyle:           values["itStyle"],
		ItRetailPrice:     values["itRetailPrice"],
		ItLowestPrice:     values["itLowestPrice"],
		ItCurrentPrice:    values["itCurrentPrice"],
		ItMfg:             values["itMfg"],
		ItLength:          values["itLength"],
		ItMillimeter:      values["itMillimeter"],
		ItFolioNumber:     values["itFolioNumber"],
		ItVendBarCode:     values["itVendBarCode"],
		ItSerialNumber:    values["itSerialNumber"],
		ImTitle:           values["imTitle"],
		ImMetaTitle:       values["imMetaTitle"],
		ImMetaKeywords:    values["imMetaKeywords"],
		ImMetaDescription: values["imMetaDescription"],
		ImDescription:     values["imDescription"],
		ImWebTags:         values["imWebTags"],
		ImBaseSKU:         values["imBaseSKU"],
		ImCategory:        values["imCategory"],
		WlkURL:            values["wlkUrl"],
	}
}

// TemplateColumns returns a copy of the export header for template downloads.
func TemplateColumns() []string {
	out := make([]string, len(csvColumns))
	copy(out, csvColumns)
	return out
}
