package pdfform

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Field is one labeled entry on a fixed-layout FDA form. Default is used
// when the caller supplies no value.
type Field struct {
	Key     string
	Label   string
	Default string
}

type FormLayout struct {
	Number string
	Title  string
	Fields []Field
}

var layouts = map[string]FormLayout{
	"1571": {
		Number: "1571",
		Title:  "Investigational New Drug Application (IND)",
		Fields: []Field{
			{Key: "sponsor_name", Label: "Name of Sponsor", Default: "Not provided"},
			{Key: "sponsor_address", Label: "Sponsor Address", Default: "Not provided"},
			{Key: "drug_name", Label: "Name of Drug", Default: "Not provided"},
			{Key: "ind_number", Label: "IND Number", Default: "Pending assignment"},
			{Key: "indication", Label: "Indication", Default: "Not provided"},
			{Key: "phase", Label: "Phase of Clinical Investigation", Default: "Phase 1"},
			{Key: "serial_number", Label: "Serial Number", Default: "0000"},
			{Key: "submission_contents", Label: "Contents of Submission", Default: "Initial Investigational New Drug Application"},
			{Key: "contact_name", Label: "Name of Contact Person", Default: "Not provided"},
			{Key: "contact_phone", Label: "Telephone Number", Default: "Not provided"},
		},
	},
	"1572": {
		Number: "1572",
		Title:  "Statement of Investigator",
		Fields: []Field{
			{Key: "investigator_name", Label: "Name of Investigator", Default: "Not provided"},
			{Key: "investigator_address", Label: "Address of Investigator", Default: "Not provided"},
			{Key: "education", Label: "Education, Training and Experience", Default: "Curriculum vitae attached"},
			{Key: "facility_name", Label: "Name of Research Facility", Default: "Not provided"},
			{Key: "facility_address", Label: "Facility Address", Default: "Not provided"},
			{Key: "irb_name", Label: "Name of IRB", Default: "Not provided"},
			{Key: "subinvestigators", Label: "Names of Subinvestigators", Default: "None"},
			{Key: "protocol_title", Label: "Protocol Title", Default: "Not provided"},
		},
	},
	"3674": {
		Number: "3674",
		Title:  "Certification of Compliance with ClinicalTrials.gov",
		Fields: []Field{
			{Key: "sponsor_name", Label: "Name of Sponsor/Applicant", Default: "Not provided"},
			{Key: "drug_name", Label: "Product Name", Default: "Not provided"},
			{Key: "application_number", Label: "Application/Submission Number", Default: "Pending assignment"},
			{Key: "certification_option", Label: "Certification Statement", Default: "Requirements of 42 U.S.C. 282(j) do not apply"},
			{Key: "nct_number", Label: "NCT Number", Default: "Not applicable"},
			{Key: "signer_name", Label: "Name of Certifier", Default: "Not provided"},
			{Key: "signature_date", Label: "Date", Default: "Not provided"},
		},
	},
	"3454": {
		Number: "3454",
		Title:  "Certification: Financial Interests and Arrangements of Clinical Investigators",
		Fields: []Field{
			{Key: "applicant_name", Label: "Name of Applicant", Default: "Not provided"},
			{Key: "product_name", Label: "Product Name", Default: "Not provided"},
			{Key: "application_number", Label: "Application Number", Default: "Pending assignment"},
			{Key: "certification_statement", Label: "Certification", Default: "No financial arrangements per 21 CFR 54.4(a)(3) exist"},
			{Key: "attachment_list", Label: "Attachments", Default: "None"},
			{Key: "signer_name", Label: "Name of Authorized Representative", Default: "Not provided"},
			{Key: "signer_title", Label: "Title", Default: "Not provided"},
			{Key: "signature_date", Label: "Date", Default: "Not provided"},
		},
	},
}

func SupportedForms() []string {
	numbers := make([]string, 0, len(layouts))
	for number := range layouts {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)
	return numbers
}

func Supported(formNumber string) bool {
	_, ok := layouts[strings.TrimSpace(formNumber)]
	return ok
}

// Build draws the requested form field by field and returns the PDF bytes.
// Missing data keys fall back to the field default; unknown keys are ignored.
func Build(formNumber string, data map[string]string) ([]byte, error) {
	layout, ok := layouts[strings.TrimSpace(formNumber)]
	if !ok {
		return nil, fmt.Errorf("unsupported form number %q", formNumber)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 16, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "DEPARTMENT OF HEALTH AND HUMAN SERVICES - FOOD AND DRUG ADMINISTRATION", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, fmt.Sprintf("FORM FDA %s", layout.Number), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, layout.Title, "", "C", false)
	pdf.Ln(4)

	for _, field := range layout.Fields {
		value := strings.TrimSpace(data[field.Key])
		if value == "" {
			value = field.Default
		}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, strings.ToUpper(field.Label), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, value, "B", "L", false)
		pdf.Ln(2)
	}

	pdf.SetY(-24)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Form FDA %s - generated draft, not for submission without review", layout.Number), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render form %s: %w", layout.Number, err)
	}
	return buf.Bytes(), nil
}
