// Package schema defines the extraction record shapes for the engine's two
// active document types and reflects them, along with the validator's
// verdict envelope, into JSON Schema documents suitable for structured LLM
// output.
package schema

// EntryPrintLineItem is one tariff line on an Entry Print record.
type EntryPrintLineItem struct {
	LineNumber       int    `json:"line_number" jsonschema:"required"`
	Description      string `json:"description"`
	TariffCode       string `json:"tariff_code"`
	StatisticalCode  string `json:"statistical_code"`
	CountryOfOrigin  string `json:"country_of_origin"`
	Quantity         string `json:"quantity"`
	UnitOfQuantity   string `json:"unit_of_quantity"`
	CustomsValue     string `json:"customs_value"`
	GSTExempt        string `json:"gst_exempt"`
	ConcessionCode   string `json:"concession_code"`
	TreatmentCode    string `json:"treatment_code"`
}

// EntryPrintRecord mirrors the customs-broker "entry print" document: a
// header of declaration-level fields plus a set of line items. Field names
// follow the terminology a customs entry print uses so the prompt-side
// compare_fields in a checklist line up with real labels on the page.
type EntryPrintRecord struct {
	EntryNumber            string `json:"entry_number" jsonschema:"required"`
	EntryType               string `json:"entry_type"`
	EntryDate                string `json:"entry_date"`
	OwnerName                string `json:"owner_name"`
	OwnerABN                 string `json:"owner_abn"`
	BrokerName               string `json:"broker_name"`
	BrokerLicenseNumber      string `json:"broker_license_number"`
	ImporterName             string `json:"importer_name"`
	ImporterABN              string `json:"importer_abn"`
	ExporterName             string `json:"exporter_name"`
	ExporterCountry          string `json:"exporter_country"`
	SupplierName             string `json:"supplier_name"`
	SupplierCountry          string `json:"supplier_country"`
	ConsigneeName            string `json:"consignee_name"`
	PortOfLoading            string `json:"port_of_loading"`
	PortOfDischarge          string `json:"port_of_discharge"`
	FinalDestination         string `json:"final_destination"`
	VesselName               string `json:"vessel_name"`
	VoyageNumber             string `json:"voyage_number"`
	BillOfLadingNumber       string `json:"bill_of_lading_number"`
	HouseBillNumber          string `json:"house_bill_number"`
	ContainerNumbers         string `json:"container_numbers"`
	MarksAndNumbers          string `json:"marks_and_numbers"`
	NumberOfPackages         string `json:"number_of_packages"`
	GrossWeight              string `json:"gross_weight"`
	GrossWeightUnit          string `json:"gross_weight_unit"`
	NetWeight                string `json:"net_weight"`
	Volume                   string `json:"volume"`
	FreightAmount            string `json:"freight_amount"`
	FreightCurrency          string `json:"freight_currency"`
	InsuranceAmount          string `json:"insurance_amount"`
	InsuranceCurrency        string `json:"insurance_currency"`
	CustomsValueTotal        string `json:"customs_value_total"`
	CustomsValueCurrency     string `json:"customs_value_currency"`
	ValuationDate            string `json:"valuation_date"`
	ValuationMethod          string `json:"valuation_method"`
	ExchangeRate             string `json:"exchange_rate"`
	VoTIAmount               string `json:"voti_amount"`
	DutyPayable              string `json:"duty_payable"`
	GSTPayable               string `json:"gst_payable"`
	GSTExemptionCode         string `json:"gst_exemption_code"`
	TotalTaxesPayable        string `json:"total_taxes_payable"`
	CountryOfOrigin          string `json:"country_of_origin"`
	CountryOfExport          string `json:"country_of_export"`
	TreatmentCode            string `json:"treatment_code"`
	PreferenceScheme         string `json:"preference_scheme"`
	FTACertificateNumber     string `json:"fta_certificate_number"`
	CommunityProtectionCode  string `json:"community_protection_code"`
	BiosecurityReference     string `json:"biosecurity_reference"`
	PermitNumbers            string `json:"permit_numbers"`
	ModeOfTransport          string `json:"mode_of_transport"`
	Containerized            string `json:"containerized"`
	FCLOrLCL                 string `json:"fcl_or_lcl"`
	CargoType                string `json:"cargo_type"`
	DangerousGoods           string `json:"dangerous_goods"`
	TariffConcessionOrder    string `json:"tariff_concession_order"`
	AntiDumpingNoticeNumber  string `json:"anti_dumping_notice_number"`
	ScheduleNumber           string `json:"schedule_number"`
	InvoiceNumber            string `json:"invoice_number"`
	InvoiceDate              string `json:"invoice_date"`
	InvoiceTotal             string `json:"invoice_total"`
	InvoiceCurrency          string `json:"invoice_currency"`
	PaymentTerms             string `json:"payment_terms"`
	IncoTerms                string `json:"incoterms"`
	DeclarantReference       string `json:"declarant_reference"`
	UCRNumber                string `json:"ucr_number"`
	SACNumber                string `json:"sac_number"`
	ClearanceStatus          string `json:"clearance_status"`
	ClearanceDate            string `json:"clearance_date"`
	ReleaseDate              string `json:"release_date"`
	Warehouse                string `json:"warehouse"`
	StorageLocation          string `json:"storage_location"`
	Notes                    string `json:"notes"`
	LineItems                []EntryPrintLineItem `json:"line_items"`
}

// CommercialInvoiceLineItem is one line on a commercial invoice.
type CommercialInvoiceLineItem struct {
	LineNumber      int    `json:"line_number" jsonschema:"required"`
	Description     string `json:"description"`
	Quantity        string `json:"quantity"`
	UnitOfMeasure   string `json:"unit_of_measure"`
	UnitPrice       string `json:"unit_price"`
	TotalPrice      string `json:"total_price"`
	CountryOfOrigin string `json:"country_of_origin"`
	HSCodeHint      string `json:"hs_code_hint"`
	PartNumber      string `json:"part_number"`
	NetWeight       string `json:"net_weight"`
}

// CommercialInvoiceRecord mirrors a supplier commercial invoice.
type CommercialInvoiceRecord struct {
	InvoiceNumber     string `json:"invoice_number" jsonschema:"required"`
	InvoiceDate       string `json:"invoice_date"`
	SellerName        string `json:"seller_name"`
	SellerAddress     string `json:"seller_address"`
	SellerCountry     string `json:"seller_country"`
	BuyerName         string `json:"buyer_name"`
	BuyerAddress      string `json:"buyer_address"`
	BuyerCountry      string `json:"buyer_country"`
	PurchaseOrderNumber string `json:"purchase_order_number"`
	Currency          string `json:"currency"`
	IncoTerms         string `json:"incoterms"`
	PaymentTerms      string `json:"payment_terms"`
	ShipmentDate      string `json:"shipment_date"`
	CountryOfOrigin   string `json:"country_of_origin"`
	CountryOfExport   string `json:"country_of_export"`
	PortOfLoading     string `json:"port_of_loading"`
	PortOfDischarge   string `json:"port_of_discharge"`
	ModeOfTransport   string `json:"mode_of_transport"`
	FreightAmount     string `json:"freight_amount"`
	InsuranceAmount   string `json:"insurance_amount"`
	SubTotal          string `json:"sub_total"`
	TotalAmount       string `json:"total_amount"`
	NumberOfPackages  string `json:"number_of_packages"`
	GrossWeight       string `json:"gross_weight"`
	NetWeight         string `json:"net_weight"`
	BankDetails       string `json:"bank_details"`
	Notes             string `json:"notes"`
	LineItems         []CommercialInvoiceLineItem `json:"line_items"`
}

// ClassificationResult is C3's structured output: a single document-type
// field.
type ClassificationResult struct {
	DocumentType string `json:"document_type" jsonschema:"enum=entry_print,enum=air_waybill,enum=commercial_invoice,enum=packing_list,enum=other,required"`
}

// VerdictResult is a single check's structured verdict, matching the
// engine.Verdict shape the validator deserializes into.
type VerdictResult struct {
	CheckID          string `json:"check_id" jsonschema:"required"`
	AuditingCriteria string `json:"auditing_criteria"`
	Status           string `json:"status" jsonschema:"enum=PASS,enum=FAIL,enum=QUESTIONABLE,enum=N/A,required"`
	Assessment       string `json:"assessment"`
	SourceDocument   string `json:"source_document"`
	TargetDocument   string `json:"target_document"`
	SourceValue      string `json:"source_value"`
	TargetValue      string `json:"target_value"`
}

// ValidationEnvelope is the top-level object the model must return for a
// single C7 invocation.
type ValidationEnvelope struct {
	Validations []VerdictResult `json:"validations" jsonschema:"required"`
}
