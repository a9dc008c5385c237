// Package county holds the fixed reference list of Kenya's 47 counties, the
// partitioning key for users, admins, uploads and tickets.
package county

// Count is the number of counties, and therefore the sub-admin cap.
const Count = 47

// County is one administrative region, keyed by its official county code.
type County struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Ordered by official code: 1 (Mombasa) through 47 (Nairobi).
var counties = []County{
	{1, "Mombasa"}, {2, "Kwale"}, {3, "Kilifi"}, {4, "Tana River"},
	{5, "Lamu"}, {6, "Taita-Taveta"}, {7, "Garissa"}, {8, "Wajir"},
	{9, "Mandera"}, {10, "Marsabit"}, {11, "Isiolo"}, {12, "Meru"},
	{13, "Tharaka-Nithi"}, {14, "Embu"}, {15, "Kitui"}, {16, "Machakos"},
	{17, "Makueni"}, {18, "Nyandarua"}, {19, "Nyeri"}, {20, "Kirinyaga"},
	{21, "Murang'a"}, {22, "Kiambu"}, {23, "Turkana"}, {24, "West Pokot"},
	{25, "Samburu"}, {26, "Trans Nzoia"}, {27, "Uasin Gishu"}, {28, "Elgeyo-Marakwet"},
	{29, "Nandi"}, {30, "Baringo"}, {31, "Laikipia"}, {32, "Nakuru"},
	{33, "Narok"}, {34, "Kajiado"}, {35, "Kericho"}, {36, "Bomet"},
	{37, "Kakamega"}, {38, "Vihiga"}, {39, "Bungoma"}, {40, "Busia"},
	{41, "Siaya"}, {42, "Kisumu"}, {43, "Homa Bay"}, {44, "Migori"},
	{45, "Kisii"}, {46, "Nyamira"}, {47, "Nairobi"},
}

// All returns the full reference list in code order.
func All() []County {
	out := make([]County, len(counties))
	copy(out, counties)
	return out
}

// Valid reports whether id is a known county code.
func Valid(id int) bool {
	return id >= 1 && id <= Count
}

// Name returns the county name for id, or the empty string for an unknown id.
func Name(id int) string {
	if !Valid(id) {
		return ""
	}
	return counties[id-1].Name
}
