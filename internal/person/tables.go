package person

// Reference tables condensed from IBGE name-frequency data. First
// names are stored per census period in display form; surnames in the
// dataset's all-caps form, ordered by frequency so the top slice can
// stand in for the "top 40" restriction.

var firstNamesByPeriod = map[TimePeriod][]string{
	Until1930: {
		"Maria", "José", "João", "Antônio", "Francisco", "Ana",
		"Manoel", "Joaquim", "Sebastião", "Raimundo", "Josefa", "Luiz",
	},
	Until1940: {
		"Maria", "José", "João", "Antônio", "Francisco", "Ana",
		"Manoel", "Sebastião", "Raimundo", "Luiz", "Terezinha", "Pedro",
	},
	Until1950: {
		"Maria", "José", "João", "Antônio", "Francisco", "Ana",
		"Luiz", "Sebastião", "Terezinha", "Pedro", "Paulo", "Carlos",
	},
	Until1960: {
		"Maria", "José", "João", "Antônio", "Carlos", "Paulo",
		"Ana", "Francisco", "Luiz", "Pedro", "Sônia", "Vera",
	},
	Until1970: {
		"Maria", "José", "Carlos", "Paulo", "Ana", "João",
		"Marcos", "Luiz", "Sandra", "Márcia", "Antônio", "Cláudia",
	},
	Until1980: {
		"Maria", "José", "Marcos", "Ana", "Paulo", "Carlos",
		"Marcelo", "Adriana", "Fernanda", "Alexandre", "Rodrigo", "Juliana",
	},
	Until1990: {
		"Maria", "Ana", "José", "Rafael", "Fernanda", "Rodrigo",
		"Juliana", "Bruno", "Leonardo", "Aline", "Thiago", "Camila",
	},
	Until2000: {
		"Maria", "Ana", "Lucas", "Matheus", "Gabriel", "Felipe",
		"Julia", "Gabriela", "Leticia", "Guilherme", "Pedro", "Amanda",
	},
	Until2010: {
		"Miguel", "Maria", "Arthur", "Helena", "Davi", "Alice",
		"Gabriel", "Sophia", "Pedro", "Julia", "Lucas", "Valentina",
		"Enzo", "Laura", "Matheus", "Isabella",
	},
}

// middleNameShare is the fraction of people carrying a second given
// name in the source data.
const middleNameShare = 0.32

var middleNames = []string{
	"Eduarda", "Luiza", "Clara", "Fernanda", "Cristina", "Aparecida",
	"Eduardo", "Henrique", "Augusto", "César", "Vitória", "Beatriz",
	"Gabriel", "Helena", "Antônio", "José",
}

// topSurnameCount marks the slice of surnames treated as the most
// common set.
const topSurnameCount = 16

var surnames = []string{
	"SILVA", "SANTOS", "OLIVEIRA", "SOUZA", "RODRIGUES", "FERREIRA",
	"ALVES", "PEREIRA", "LIMA", "GOMES", "COSTA", "RIBEIRO",
	"MARTINS", "CARVALHO", "ALMEIDA", "LOPES", "SOARES", "FERNANDES",
	"VIEIRA", "BARBOSA", "ROCHA", "DIAS", "NASCIMENTO", "ANDRADE",
	"MOREIRA", "NUNES", "MARQUES", "MACHADO", "MENDES", "FREITAS",
	"CARDOSO", "RAMOS", "GONÇALVES", "SANTANA", "TEIXEIRA", "JESUS",
	"SOUSA", "ARAÚJO", "MONTEIRO", "CORREIA",
}

type surnamePrefix struct {
	particle    string
	probability float64
}

// surnamePrefixes maps surnames to the particles observed before them
// and how often each appears.
var surnamePrefixes = map[string][]surnamePrefix{
	"SANTOS":     {{"dos", 0.85}, {"de", 0.05}},
	"SILVA":      {{"da", 0.85}, {"e", 0.05}},
	"NASCIMENTO": {{"do", 0.9}},
	"COSTA":      {{"da", 0.9}},
	"SOUZA":      {{"de", 0.8}},
	"SOUSA":      {{"de", 0.8}},
	"OLIVEIRA":   {{"de", 0.8}},
	"JESUS":      {{"de", 0.8}},
	"PEREIRA":    {{"da", 0.6}},
	"FERREIRA":   {{"da", 0.6}},
	"LIMA":       {{"de", 0.6}},
	"CARVALHO":   {{"de", 0.6}},
	"RIBEIRO":    {{"do", 0.6}},
}
