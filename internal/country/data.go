package country

// Entry is one country or territory of the reference list.
type Entry struct {
	ISO3    string
	Name    string
	Aliases []string
}

// reference is ordered by ISO3. Its order is the tie-break of the first-match policy.
var reference = []Entry{
	{"ABW", "Aruba", nil},
	{"AFG", "Afghanistan", []string{"Islamic Republic of Afghanistan"}},
	{"AGO", "Angola", nil},
	{"AIA", "Anguilla", nil},
	{"ALA", "Åland Islands", []string{"Aland"}},
	{"ALB", "Albania", nil},
	{"AND", "Andorra", nil},
	{"ARE", "United Arab Emirates", []string{"UAE", "Emirates"}},
	{"ARG", "Argentina", nil},
	{"ARM", "Armenia", nil},
	{"ASM", "American Samoa", nil},
	{"ATG", "Antigua and Barbuda", []string{"Antigua"}},
	{"AUS", "Australia", nil},
	{"AUT", "Austria", nil},
	{"AZE", "Azerbaijan", nil},
	{"BDI", "Burundi", nil},
	{"BEL", "Belgium", nil},
	{"BEN", "Benin", nil},
	{"BES", "Bonaire, Sint Eustatius and Saba", []string{"Caribbean Netherlands"}},
	{"BFA", "Burkina Faso", []string{"Burkina"}},
	{"BGD", "Bangladesh", nil},
	{"BGR", "Bulgaria", nil},
	{"BHR", "Bahrain", nil},
	{"BHS", "Bahamas", []string{"The Bahamas"}},
	{"BIH", "Bosnia and Herzegovina", []string{"Bosnia", "Bosnia-Herzegovina"}},
	{"BLM", "Saint Barthélemy", []string{"St. Barts"}},
	{"BLR", "Belarus", []string{"Byelorussia"}},
	{"BLZ", "Belize", nil},
	{"BMU", "Bermuda", nil},
	{"BOL", "Bolivia (Plurinational State of)", []string{"Bolivia", "Plurinational State of Bolivia"}},
	{"BRA", "Brazil", nil},
	{"BRB", "Barbados", nil},
	{"BRN", "Brunei Darussalam", []string{"Brunei"}},
	{"BTN", "Bhutan", nil},
	{"BWA", "Botswana", nil},
	{"CAF", "Central African Republic", []string{"CAR", "Central African Rep."}},
	{"CAN", "Canada", nil},
	{"CHE", "Switzerland", nil},
	{"CHL", "Chile", nil},
	{"CHN", "China", []string{"People's Republic of China", "PRC"}},
	{"CIV", "Côte d'Ivoire", []string{"Ivory Coast", "Republic of Côte d'Ivoire"}},
	{"CMR", "Cameroon", nil},
	{"COD", "Democratic Republic of the Congo", []string{"DRC", "DR Congo", "Dem. Rep. of the Congo", "Congo, Democratic Republic of the", "Congo-Kinshasa", "Zaire"}},
	{"COG", "Congo", []string{"Republic of the Congo", "Congo, Republic of", "Congo-Brazzaville", "Rep. of the Congo"}},
	{"COK", "Cook Islands", nil},
	{"COL", "Colombia", nil},
	{"COM", "Comoros", nil},
	{"CPV", "Cabo Verde", []string{"Cape Verde"}},
	{"CRI", "Costa Rica", nil},
	{"CUB", "Cuba", nil},
	{"CUW", "Curaçao", nil},
	{"CYM", "Cayman Islands", nil},
	{"CYP", "Cyprus", nil},
	{"CZE", "Czechia", []string{"Czech Republic", "Czech Rep."}},
	{"DEU", "Germany", nil},
	{"DJI", "Djibouti", nil},
	{"DMA", "Dominica", nil},
	{"DNK", "Denmark", nil},
	{"DOM", "Dominican Republic", []string{"Dominican Rep."}},
	{"DZA", "Algeria", nil},
	{"ECU", "Ecuador", nil},
	{"EGY", "Egypt", nil},
	{"ERI", "Eritrea", nil},
	{"ESH", "Western Sahara", nil},
	{"ESP", "Spain", nil},
	{"EST", "Estonia", nil},
	{"ETH", "Ethiopia", nil},
	{"FIN", "Finland", nil},
	{"FJI", "Fiji", nil},
	{"FLK", "Falkland Islands (Malvinas)", []string{"Falkland Islands"}},
	{"FRA", "France", nil},
	{"FRO", "Faroe Islands", nil},
	{"FSM", "Micronesia (Federated States of)", []string{"Micronesia", "Federated States of Micronesia"}},
	{"GAB", "Gabon", nil},
	{"GBR", "United Kingdom of Great Britain and Northern Ireland", []string{"United Kingdom", "UK", "Great Britain", "Britain"}},
	{"GEO", "Georgia", nil},
	{"GGY", "Guernsey", nil},
	{"GHA", "Ghana", nil},
	{"GIB", "Gibraltar", nil},
	{"GIN", "Guinea", []string{"Republic of Guinea", "Guinea-Conakry"}},
	{"GLP", "Guadeloupe", nil},
	{"GMB", "Gambia", []string{"The Gambia"}},
	{"GNB", "Guinea-Bissau", []string{"Guinea Bissau"}},
	{"GNQ", "Equatorial Guinea", nil},
	{"GRC", "Greece", nil},
	{"GRD", "Grenada", nil},
	{"GRL", "Greenland", nil},
	{"GTM", "Guatemala", nil},
	{"GUF", "French Guiana", nil},
	{"GUM", "Guam", nil},
	{"GUY", "Guyana", nil},
	{"HKG", "China, Hong Kong Special Administrative Region", []string{"Hong Kong", "Hong Kong SAR"}},
	{"HND", "Honduras", nil},
	{"HRV", "Croatia", nil},
	{"HTI", "Haiti", nil},
	{"HUN", "Hungary", nil},
	{"IDN", "Indonesia", nil},
	{"IMN", "Isle of Man", nil},
	{"IND", "India", nil},
	{"IRL", "Ireland", nil},
	{"IRN", "Iran (Islamic Republic of)", []string{"Iran", "Islamic Republic of Iran", "Iran (Islamic Rep. of)"}},
	{"IRQ", "Iraq", nil},
	{"ISL", "Iceland", nil},
	{"ISR", "Israel", nil},
	{"ITA", "Italy", nil},
	{"JAM", "Jamaica", nil},
	{"JEY", "Jersey", nil},
	{"JOR", "Jordan", nil},
	{"JPN", "Japan", nil},
	{"KAZ", "Kazakhstan", nil},
	{"KEN", "Kenya", nil},
	{"KGZ", "Kyrgyzstan", []string{"Kyrgyz Republic"}},
	{"KHM", "Cambodia", nil},
	{"KIR", "Kiribati", nil},
	{"KNA", "Saint Kitts and Nevis", []string{"St. Kitts and Nevis"}},
	{"KOR", "Republic of Korea", []string{"South Korea", "Korea, Republic of", "Rep. of Korea"}},
	{"KWT", "Kuwait", nil},
	{"LAO", "Lao People's Democratic Republic", []string{"Laos", "Lao PDR", "Lao People's Dem. Rep."}},
	{"LBN", "Lebanon", nil},
	{"LBR", "Liberia", nil},
	{"LBY", "Libya", []string{"Libyan Arab Jamahiriya"}},
	{"LCA", "Saint Lucia", []string{"St. Lucia"}},
	{"LIE", "Liechtenstein", nil},
	{"LKA", "Sri Lanka", nil},
	{"LSO", "Lesotho", nil},
	{"LTU", "Lithuania", nil},
	{"LUX", "Luxembourg", nil},
	{"LVA", "Latvia", nil},
	{"MAC", "China, Macao Special Administrative Region", []string{"Macao", "Macau"}},
	{"MAF", "Saint Martin (French part)", []string{"Saint Martin"}},
	{"MAR", "Morocco", nil},
	{"MCO", "Monaco", nil},
	{"MDA", "Republic of Moldova", []string{"Moldova", "Moldova, Republic of", "Rep. of Moldova"}},
	{"MDG", "Madagascar", nil},
	{"MDV", "Maldives", nil},
	{"MEX", "Mexico", nil},
	{"MHL", "Marshall Islands", nil},
	{"MKD", "North Macedonia", []string{"Macedonia", "The former Yugoslav Republic of Macedonia"}},
	{"MLI", "Mali", nil},
	{"MLT", "Malta", nil},
	{"MMR", "Myanmar", []string{"Burma"}},
	{"MNE", "Montenegro", nil},
	{"MNG", "Mongolia", nil},
	{"MNP", "Northern Mariana Islands", nil},
	{"MOZ", "Mozambique", nil},
	{"MRT", "Mauritania", nil},
	{"MSR", "Montserrat", nil},
	{"MTQ", "Martinique", nil},
	{"MUS", "Mauritius", nil},
	{"MWI", "Malawi", nil},
	{"MYS", "Malaysia", nil},
	{"MYT", "Mayotte", nil},
	{"NAM", "Namibia", nil},
	{"NCL", "New Caledonia", nil},
	{"NER", "Niger", []string{"Republic of the Niger"}},
	{"NGA", "Nigeria", nil},
	{"NIC", "Nicaragua", nil},
	{"NIU", "Niue", nil},
	{"NLD", "Netherlands", []string{"Netherlands (Kingdom of the)", "Holland"}},
	{"NOR", "Norway", nil},
	{"NPL", "Nepal", nil},
	{"NRU", "Nauru", nil},
	{"NZL", "New Zealand", nil},
	{"OMN", "Oman", nil},
	{"PAK", "Pakistan", nil},
	{"PAN", "Panama", nil},
	{"PER", "Peru", nil},
	{"PHL", "Philippines", nil},
	{"PLW", "Palau", nil},
	{"PNG", "Papua New Guinea", nil},
	{"POL", "Poland", nil},
	{"PRI", "Puerto Rico", nil},
	{"PRK", "Democratic People's Republic of Korea", []string{"North Korea", "Korea, Democratic People's Republic of", "Dem. People's Rep. of Korea"}},
	{"PRT", "Portugal", nil},
	{"PRY", "Paraguay", nil},
	{"PSE", "State of Palestine", []string{"Palestine", "Occupied Palestinian Territory", "Palestinian Territories"}},
	{"PYF", "French Polynesia", nil},
	{"QAT", "Qatar", nil},
	{"REU", "Réunion", nil},
	{"ROU", "Romania", nil},
	{"RUS", "Russian Federation", []string{"Russia"}},
	{"RWA", "Rwanda", nil},
	{"SAU", "Saudi Arabia", nil},
	{"SDN", "Sudan", []string{"Republic of the Sudan"}},
	{"SEN", "Senegal", nil},
	{"SGP", "Singapore", nil},
	{"SHN", "Saint Helena", nil},
	{"SLB", "Solomon Islands", nil},
	{"SLE", "Sierra Leone", nil},
	{"SLV", "El Salvador", nil},
	{"SMR", "San Marino", nil},
	{"SOM", "Somalia", nil},
	{"SPM", "Saint Pierre and Miquelon", nil},
	{"SRB", "Serbia", []string{"Serbia and Kosovo: S/RES/1244 (1999)", "Serbia and Kosovo"}},
	{"SSD", "South Sudan", []string{"Republic of South Sudan"}},
	{"STP", "Sao Tome and Principe", nil},
	{"SUR", "Suriname", nil},
	{"SVK", "Slovakia", []string{"Slovak Republic"}},
	{"SVN", "Slovenia", nil},
	{"SWE", "Sweden", nil},
	{"SWZ", "Eswatini", []string{"Swaziland", "Kingdom of Eswatini"}},
	{"SXM", "Sint Maarten (Dutch part)", []string{"Sint Maarten"}},
	{"SYC", "Seychelles", nil},
	{"SYR", "Syrian Arab Republic", []string{"Syria", "Syrian Arab Rep."}},
	{"TCA", "Turks and Caicos Islands", nil},
	{"TCD", "Chad", nil},
	{"TGO", "Togo", nil},
	{"THA", "Thailand", nil},
	{"TJK", "Tajikistan", nil},
	{"TKL", "Tokelau", nil},
	{"TKM", "Turkmenistan", nil},
	{"TLS", "Timor-Leste", []string{"East Timor"}},
	{"TON", "Tonga", nil},
	{"TTO", "Trinidad and Tobago", nil},
	{"TUN", "Tunisia", nil},
	{"TUR", "Türkiye", []string{"Turkey"}},
	{"TUV", "Tuvalu", nil},
	{"TWN", "Taiwan", []string{"Taiwan Province of China"}},
	{"TZA", "United Republic of Tanzania", []string{"Tanzania", "United Rep. of Tanzania", "Tanzania, United Republic of"}},
	{"UGA", "Uganda", nil},
	{"UKR", "Ukraine", nil},
	{"URY", "Uruguay", nil},
	{"USA", "United States of America", []string{"United States", "USA", "US"}},
	{"UZB", "Uzbekistan", nil},
	{"VAT", "Holy See", []string{"Vatican City"}},
	{"VCT", "Saint Vincent and the Grenadines", []string{"St. Vincent and the Grenadines"}},
	{"VEN", "Venezuela (Bolivarian Republic of)", []string{"Venezuela", "Bolivarian Republic of Venezuela"}},
	{"VGB", "British Virgin Islands", []string{"Virgin Islands (British)"}},
	{"VIR", "United States Virgin Islands", []string{"US Virgin Islands", "Virgin Islands (U.S.)"}},
	{"VNM", "Viet Nam", []string{"Vietnam"}},
	{"VUT", "Vanuatu", nil},
	{"WLF", "Wallis and Futuna Islands", []string{"Wallis and Futuna"}},
	{"WSM", "Samoa", nil},
	{"XKX", "Kosovo", nil},
	{"YEM", "Yemen", nil},
	{"ZAF", "South Africa", nil},
	{"ZMB", "Zambia", nil},
	{"ZWE", "Zimbabwe", nil},
}
