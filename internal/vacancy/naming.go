package vacancy

// Naming holds the display vocabulary of the table view
type Naming struct {
	// Titles maps a field to its column title
	Titles map[Field]string
	// Experience maps experience ids to labels
	Experience map[string]string
	// Currencies maps currency codes to names
	Currencies map[string]string
	Yes        string
	No         string
	Gross      string
	Net        string
}

// DefaultNaming returns a fresh copy of the Russian vocabulary
func DefaultNaming() Naming {
	return Naming{
		Titles: map[Field]string{
			FieldName:        "Название",
			FieldDescription: "Описание",
			FieldKeySkills:   "Навыки",
			FieldExperience:  "Опыт работы",
			FieldPremium:     "Премиум-вакансия",
			FieldEmployer:    "Компания",
			FieldSalary:      "Оклад",
			FieldArea:        "Название региона",
			FieldPublishedAt: "Дата публикации вакансии",
			FieldCurrency:    "Идентификатор валюты оклада",
		},
		Experience: map[string]string{
			"noExperience": "Нет опыта",
			"between1And3": "От 1 года до 3 лет",
			"between3And6": "От 3 до 6 лет",
			"moreThan6":    "Более 6 лет",
		},
		Currencies: map[string]string{
			"AZN": "Манаты",
			"BYR": "Белорусские рубли",
			"EUR": "Евро",
			"GEL": "Грузинский лари",
			"KGS": "Киргизский сом",
			"KZT": "Тенге",
			"RUR": "Рубли",
			"UAH": "Гривны",
			"USD": "Доллары",
			"UZS": "Узбекский сум",
		},
		Yes:   "Да",
		No:    "Нет",
		Gross: "Без вычета налогов",
		Net:   "С вычетом налогов",
	}
}

// Title returns the column title of a field, falling back to its column name
func (n Naming) Title(f Field) string {
	if t, ok := n.Titles[f]; ok {
		return t
	}
	return f.String()
}

// ExperienceLabel translates an experience id
func (n Naming) ExperienceLabel(id string) string {
	if l, ok := n.Experience[id]; ok {
		return l
	}
	return id
}

// CurrencyName translates a currency code
func (n Naming) CurrencyName(code string) string {
	if name, ok := n.Currencies[code]; ok {
		return name
	}
	return code
}

// Bool renders a "True"/"False" flag as yes or no
func (n Naming) Bool(flag string) string {
	if flag == "True" {
		return n.Yes
	}
	return n.No
}

// ExperienceID maps a label back to its id, accepting ids unchanged
func (n Naming) ExperienceID(label string) string {
	for id, l := range n.Experience {
		if l == label {
			return id
		}
	}
	return label
}

// CurrencyCode maps a currency name back to its code, accepting codes unchanged
func (n Naming) CurrencyCode(name string) string {
	for code, l := range n.Currencies {
		if l == name {
			return code
		}
	}
	return name
}

// Flag maps a yes/no label back to "True"/"False", accepting flags unchanged
func (n Naming) Flag(label string) string {
	switch label {
	case n.Yes:
		return "True"
	case n.No:
		return "False"
	default:
		return label
	}
}
