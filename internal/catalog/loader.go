package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/matchmaker/internal/models"
)

// SupportedExtensions lists the supplier file formats LoadSuppliers understands.
var SupportedExtensions = []string{".yaml", ".yml", ".json", ".xlsx"}

// supplierFile is the wrapped document form: {suppliers: [...]}.
type supplierFile struct {
	Suppliers []*models.Supplier `json:"suppliers" yaml:"suppliers"`
}

// LoadSuppliers reads a supplier list from a YAML, JSON or Excel file.
// YAML and JSON files hold either a bare list or a {suppliers: [...]} document.
func LoadSuppliers(path string) ([]*models.Supplier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read supplier file: %w", err)
	}
	suppliers, err := DecodeSuppliers(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return suppliers, nil
}

// DecodeSuppliers decodes supplier records in the format named by ext.
func DecodeSuppliers(data []byte, ext string) ([]*models.Supplier, error) {
	var (
		suppliers []*models.Supplier
		err       error
	)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		suppliers, err = decodeSuppliersYAML(data)
	case ".json":
		suppliers, err = decodeSuppliersJSON(data)
	case ".xlsx":
		suppliers, err = decodeSuppliersExcel(data)
	default:
		return nil, fmt.Errorf("unsupported supplier file format: %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return suppliers, validateSuppliers(suppliers)
}

func decodeSuppliersYAML(data []byte) ([]*models.Supplier, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []*models.Supplier
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("failed to decode suppliers: %w", err)
		}
		return list, nil
	}
	var file supplierFile
	if err := root.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode suppliers: %w", err)
	}
	return file.Suppliers, nil
}

func decodeSuppliersJSON(data []byte) ([]*models.Supplier, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []*models.Supplier
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return list, nil
	}
	var file supplierFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return file.Suppliers, nil
}

// supplierSheet is the preferred sheet name; otherwise the first sheet is read.
const supplierSheet = "Suppliers"

// decodeSuppliersExcel reads one supplier per row. The first row is a header naming the
// columns; header matching ignores case, spaces and punctuation ("Price Range" = "price_range").
func decodeSuppliersExcel(data []byte) ([]*models.Supplier, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if strings.EqualFold(s, supplierSheet) {
			sheet = s
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[int]string, len(rows[0]))
	hasID := false
	for i, h := range rows[0] {
		if field, ok := headerFields[normalizeHeader(h)]; ok {
			columns[i] = field
			hasID = hasID || field == "id"
		}
	}
	if !hasID {
		return nil, fmt.Errorf("sheet %q has no id column", sheet)
	}

	var suppliers []*models.Supplier
	for r, row := range rows[1:] {
		sup := &models.Supplier{}
		for i, cell := range row {
			field, ok := columns[i]
			if !ok {
				continue
			}
			if err := setSupplierField(sup, field, strings.TrimSpace(cell)); err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", sheet, r+2, err)
			}
		}
		if sup.ID == "" {
			continue
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, nil
}

// headerFields maps normalized spreadsheet headers to supplier fields.
var headerFields = map[string]string{
	"id":                  "id",
	"supplierid":          "id",
	"name":                "name",
	"suppliername":        "name",
	"categories":          "categories",
	"category":            "categories",
	"location":            "location",
	"pricerange":          "price_range",
	"price":               "price_range",
	"riskscore":           "risk_score",
	"risk":                "risk_score",
	"deliveryrating":      "delivery_rating",
	"qualityrating":       "quality_rating",
	"communicationrating": "communication_rating",
	"averagedeliverytime": "average_delivery_time",
	"deliverytime":        "average_delivery_time",
	"leadtime":            "average_delivery_time",
	"certifications":      "certifications",
	"certification":       "certifications",
	"successrate":         "success_rate",
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func setSupplierField(sup *models.Supplier, field, value string) error {
	if value == "" {
		return nil
	}
	switch field {
	case "id":
		sup.ID = value
	case "name":
		sup.Name = value
	case "categories":
		sup.Categories = models.ParseTagList(value)
	case "location":
		sup.Location = value
	case "price_range":
		sup.PriceRange = models.FlexString(value)
	case "average_delivery_time":
		sup.AverageDeliveryTime = models.FlexString(value)
	case "certifications":
		sup.Certifications = models.ParseTagList(value)
	default:
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return fmt.Errorf("column %s: invalid number %q", field, value)
		}
		switch field {
		case "risk_score":
			sup.RiskScore = &v
		case "delivery_rating":
			sup.DeliveryRating = &v
		case "quality_rating":
			sup.QualityRating = &v
		case "communication_rating":
			sup.CommunicationRating = &v
		case "success_rate":
			sup.SuccessRate = &v
		}
	}
	return nil
}

func validateSuppliers(suppliers []*models.Supplier) error {
	seen := make(map[string]struct{}, len(suppliers))
	for i, s := range suppliers {
		if s == nil || s.ID == "" {
			return fmt.Errorf("supplier %d has no id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate supplier id: %s", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// LoadRFQ reads a single RFQ from a YAML or JSON file.
func LoadRFQ(path string) (*models.RFQ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rfq file: %w", err)
	}
	var rfq models.RFQ
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rfq)
	case ".json":
		err = json.Unmarshal(data, &rfq)
	default:
		return nil, fmt.Errorf("unsupported rfq file format: %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse rfq file %s: %w", path, err)
	}
	if rfq.ID == "" {
		return nil, fmt.Errorf("rfq in %s has no id", path)
	}
	return &rfq, nil
}
