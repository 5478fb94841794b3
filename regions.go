package geoip

// regionNames maps country code and legacy region code to a display name.
// Only the United States and Canada use postal-style region codes; other
// countries use FIPS 10-4 codes that are left unresolved.
var regionNames = map[string]map[string]string{
	"US": {
		"AA": "Armed Forces Americas", "AE": "Armed Forces Europe, Middle East, & Canada",
		"AK": "Alaska", "AL": "Alabama", "AP": "Armed Forces Pacific", "AR": "Arkansas",
		"AS": "American Samoa", "AZ": "Arizona", "CA": "California", "CO": "Colorado",
		"CT": "Connecticut", "DC": "District of Columbia", "DE": "Delaware", "FL": "Florida",
		"FM": "Federated States of Micronesia", "GA": "Georgia", "GU": "Guam", "HI": "Hawaii",
		"IA": "Iowa", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "KS": "Kansas",
		"KY": "Kentucky", "LA": "Louisiana", "MA": "Massachusetts", "MD": "Maryland",
		"ME": "Maine", "MH": "Marshall Islands", "MI": "Michigan", "MN": "Minnesota",
		"MO": "Missouri", "MP": "Northern Mariana Islands", "MS": "Mississippi",
		"MT": "Montana", "NC": "North Carolina", "ND": "North Dakota", "NE": "Nebraska",
		"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NV": "Nevada",
		"NY": "New York", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
		"PA": "Pennsylvania", "PR": "Puerto Rico", "PW": "Palau", "RI": "Rhode Island",
		"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
		"UT": "Utah", "VA": "Virginia", "VI": "Virgin Islands", "VT": "Vermont",
		"WA": "Washington", "WI": "Wisconsin", "WV": "West Virginia", "WY": "Wyoming",
	},
	"CA": {
		"AB": "Alberta", "BC": "British Columbia", "MB": "Manitoba", "NB": "New Brunswick",
		"NL": "Newfoundland", "NS": "Nova Scotia", "NT": "Northwest Territories",
		"NU": "Nunavut", "ON": "Ontario", "PE": "Prince Edward Island", "QC": "Quebec",
		"SK": "Saskatchewan", "YT": "Yukon Territory",
	},
}

// RegionName returns the display name of a region, or "" when unknown.
func RegionName(countryCode, regionCode string) string {
	return regionNames[countryCode][regionCode]
}
