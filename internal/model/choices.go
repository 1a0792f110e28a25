package model

// Choice is an enumerated value with its display label.
type Choice struct {
	Value string `json:"id"`
	Label string `json:"name"`
}

// ItemTypes lists the listing types.
var ItemTypes = []Choice{
	{ItemTypeLost, "Item Perdido"},
	{ItemTypeFound, "Item Encontrado"},
}

// ItemStatuses lists the item statuses.
var ItemStatuses = []Choice{
	{ItemStatusActive, "Ativo"},
	{ItemStatusResolved, "Resolvido"},
	{ItemStatusSpam, "Spam"},
	{ItemStatusExpired, "Expirado"},
}

// Categories lists the item categories.
var Categories = []Choice{
	{"electronics", "Eletrônicos"},
	{"documents", "Documentos"},
	{"clothing_accessories", "Roupas e Acessórios"},
	{"books_supplies", "Livros e Material Escolar"},
	{"keys", "Chaves"},
	{"wallet_bag", "Carteira/Bolsa"},
	{"jewelry", "Joias e Bijuterias"},
	{"glasses", "Óculos"},
	{"sports_equipment", "Equipamentos Esportivos"},
	{"musical_instruments", "Instrumentos Musicais"},
	{"medication", "Medicamentos"},
	{"other", "Outros"},
}

// DefaultCategory is used when a listing does not name one.
const DefaultCategory = "other"

// Blocks lists the campus locations.
var Blocks = []Choice{
	{"block_1", "Bloco 1"},
	{"block_2", "Bloco 2"},
	{"block_3", "Bloco 3"},
	{"block_a", "Bloco A"},
	{"block_b", "Bloco B"},
	{"block_c", "Bloco C"},
	{"block_d", "Bloco D"},
	{"block_e", "Bloco E"},
	{"block_f", "Bloco F"},
	{"block_g", "Bloco G"},
	{"block_h", "Bloco H"},
	{"block_i", "Bloco I"},
	{"block_j", "Bloco J"},
	{"journalism", "Calendoscópio/Jornalismo"},
	{"library", "Biblioteca Central"},
	{"restaurant_ru", "RU - Restaurante Universitário"},
	{"restaurant_farm", "Restaurante Fazendinha"},
	{"registrar", "Secretaria Acadêmica"},
	{"cs_coordination", "Coordenação de Curso Ciência da Computação"},
	{"cs_student_union", "CA - Centro Acadêmico de Ciência da Computação"},
	{"dojo", "Dojô - Sala de Estudos"},
	{"campus_board", "Diretoria do Campus de Palmas"},
	{"rectorate", "Reitoria"},
	{"snack_bar", "Lanchonete"},
	{"cuica", "Cuica - CUICA"},
	{"labtec", "LabTec"},
	{"prainha", "Prainha"},
	{"track_field", "Pista de Corrida/Campo de Futebol"},
	{"bus_stop", "Ponto de Ônibus Principal"},
	{"bus_stop_rectorate", "Ponto de Ônibus Reitoria"},
	{"bus_stop_j", "Ponto de Ônibus Bloco J"},
	{"bus_stop_journalism", "Ponto de Ônibus Jornalismo"},
	{"other", "Outro Local"},
}

// Label returns the display label for value, or value itself if unknown.
func Label(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// Valid reports whether value is one of choices.
func Valid(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Values returns the raw values of choices, in order.
func Values(choices []Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Value
	}
	return out
}
