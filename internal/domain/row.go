package domain

// CsvRow is a single line of the point-of-sale CSV export. Every field is an
// opaque string; price columns are not parsed until a component explicitly
// needs them as numbers.
type CsvRow struct {
	ItKey             string `json:"itKey"`
	ItVendorID        string `json:"itVendorId"`
	ItVendStyleCode   string `json:"itVendStyleCode"`
	ItDesc            string `json:"itDesc"`
	CatName           string `json:"catName"`
	ItMetalColor      string `json:"itMetalColor"`
	ItMetalFinish     string `json:"itMetalFinish"`
	ItMetalType       string `json:"itMetalType"`
	ItMetalWeight     string `json:"itMetalWeight"`
	ItSize            string `json:"itSize"`
	ItStyle           string `json:"itStyle"`
	ItRetailPrice     string `json:"itRetailPrice"`
	ItLowestPrice     string `json:"itLowestPrice"`
	ItCurrentPrice    string `json:"itCurrentPrice"`
	ItMfg             string `json:"itMfg"`
	ItLength          string `json:"itLength"`
	ItMillimeter      string `json:"itMillimeter"`
	ItFolioNumber     string `json:"itFolioNumber"`
	ItVendBarCode     string `json:"itVendBarCode"`
	ItSerialNumber    string `json:"itSerialNumber"`
	ImTitle           string `json:"imTitle"`
	ImMetaTitle       string `json:"imMetaTitle"`
	ImMetaKeywords    string `json:"imMetaKeywords"`
	ImMetaDescription string `json:"imMetaDescription"`
	ImDescription     string `json:"imDescription"`
	ImWebTags         string `json:"imWebTags"`
	ImBaseSKU         string `json:"imBaseSKU"`
	ImCategory        string `json:"imCategory"`
	WlkURL            string `json:"wlkUrl"`
}

// ProcessingConfig carries the two batch-wide percentages. Both values are
// validated to [0, 100] before any row is processed.
type ProcessingConfig struct {
	LowestPricePercentage  float64 `json:"lowestPricePercentage"`
	CurrentPricePercentage float64 `json:"currentPricePercentage"`
}
