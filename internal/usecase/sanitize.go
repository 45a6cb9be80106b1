package usecase

// Caracteres que o Excel/LibreOffice/Sheets interpretam como início de fórmula.
const formulaTriggers = "=+-@"

const escapeMarker = '\''

// SanitizeCellValue neutralizes spreadsheet formula injection by prefixing a
// single quote. Values already starting with the marker are left alone.
func SanitizeCellValue(v string) string {
	if v == "" {
		return v
	}
	first := v[0]
	if first == escapeMarker {
		return v
	}
	for i := 0; i < len(formulaTriggers); i++ {
		if first == formulaTriggers[i] {
			return string(escapeMarker) + v
		}
	}
	return v
}

func sanitizePtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := SanitizeCellValue(*v)
	return &s
}
