// Package field defines the archive search fields a condition can target.
package field

// Field is a searchable metadata field of the news archive.
type Field string

// Archive search fields. The string values are the archive's wire names
// and are emitted verbatim into the serialized query.
const (
	AllText Field = "alltext"
	Title   Field = "Title"
	Lead    Field = "Lead"
	Author  Field = "Author"
	Source  Field = "Source"
	// Year targets the archive's date index.
	Year Field = "YMD_date"
)

// IsValid checks if the field is one of the supported values.
func (f Field) IsValid() bool {
	switch f {
	case AllText, Title, Lead, Author, Source, Year:
		return true
	default:
		return false
	}
}
