package services

import "github.com/Bekzhanizb/GreenVerseBackend/models"

type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"-"`
}

// questionBanks must not be mutated after init.
var questionBanks = map[models.QuizLevel][]Question{
	models.LevelEasy: {
		{
			Prompt:  "What do plants need to make their own food?",
			Options: []string{"Sunlight, water, and carbon dioxide", "Only water", "Only sunlight", "Only soil"},
			Correct: 0,
		},
		{
			Prompt:  "Which part of the plant absorbs water from the soil?",
			Options: []string{"Leaves", "Stem", "Roots", "Flowers"},
			Correct: 2,
		},
		{
			Prompt:  "What is the process called when plants make their own food?",
			Options: []string{"Respiration", "Photosynthesis", "Digestion", "Absorption"},
			Correct: 1,
		},
		{
			Prompt:  "What color are most plant leaves?",
			Options: []string{"Red", "Blue", "Green", "Yellow"},
			Correct: 2,
		},
		{
			Prompt:  "Which season do most flowers bloom?",
			Options: []string{"Winter", "Spring", "Summer", "Fall"},
			Correct: 1,
		},
		{
			Prompt:  "What do we call baby plants?",
			Options: []string{"Seedlings", "Saplings", "Sprouts", "All of the above"},
			Correct: 3,
		},
		{
			Prompt:  "Which part of the plant produces seeds?",
			Options: []string{"Roots", "Stem", "Leaves", "Flowers"},
			Correct: 3,
		},
		{
			Prompt:  "What do plants release into the air during photosynthesis?",
			Options: []string{"Carbon dioxide", "Oxygen", "Nitrogen", "Water vapor"},
			Correct: 1,
		},
		{
			Prompt:  "How often should most houseplants be watered?",
			Options: []string{"Every day", "When soil is dry", "Once a month", "Never"},
			Correct: 1,
		},
		{
			Prompt:  "What is the green substance in leaves called?",
			Options: []string{"Chlorophyll", "Cellulose", "Glucose", "Starch"},
			Correct: 0,
		},
	},
	models.LevelHard: {
		{
			Prompt:  "What is the scientific name for the Rose family?",
			Options: []string{"Rosaceae", "Asteraceae", "Fabaceae", "Solanaceae"},
			Correct: 0,
		},
		{
			Prompt:  "Which plant hormone is responsible for stem elongation?",
			Options: []string{"Cytokinin", "Abscisic acid", "Gibberellin", "Ethylene"},
			Correct: 2,
		},
		{
			Prompt:  "What type of root system do monocots typically have?",
			Options: []string{"Taproot", "Fibrous root", "Adventitious root", "Aerial root"},
			Correct: 1,
		},
		{
			Prompt:  "Which plant disease is caused by Phytophthora infestans?",
			Options: []string{"Powdery mildew", "Late blight", "Rust", "Black spot"},
			Correct: 1,
		},
		{
			Prompt:  "What is the optimal pH range for most garden plants?",
			Options: []string{"4.0-5.0", "6.0-7.0", "8.0-9.0", "9.0-10.0"},
			Correct: 1,
		},
		{
			Prompt:  "Which nutrient deficiency causes yellowing of leaves (chlorosis)?",
			Options: []string{"Phosphorus", "Potassium", "Nitrogen", "Calcium"},
			Correct: 2,
		},
		{
			Prompt:  "What is the term for plants that complete their life cycle in two years?",
			Options: []string{"Annual", "Biennial", "Perennial", "Ephemeral"},
			Correct: 1,
		},
		{
			Prompt:  "Which type of pollination occurs within the same flower?",
			Options: []string{"Cross-pollination", "Self-pollination", "Wind pollination", "Water pollination"},
			Correct: 1,
		},
		{
			Prompt:  "What is the waxy coating on leaves called?",
			Options: []string{"Epidermis", "Cuticle", "Mesophyll", "Stomata"},
			Correct: 1,
		},
		{
			Prompt:  "Which plant family does the tomato belong to?",
			Options: []string{"Rosaceae", "Solanaceae", "Brassicaceae", "Cucurbitaceae"},
			Correct: 1,
		},
	},
	models.LevelHardest: {
		{
			Prompt:  "What is the Calvin cycle also known as?",
			Options: []string{"Light-dependent reactions", "C3 pathway", "Krebs cycle", "Electron transport chain"},
			Correct: 1,
		},
		{
			Prompt:  "Which enzyme is crucial for carbon fixation in photosynthesis?",
			Options: []string{"ATP synthase", "RuBisCO", "NADH dehydrogenase", "Cytochrome oxidase"},
			Correct: 1,
		},
		{
			Prompt:  "What is the phenomenon called when plants bend toward light?",
			Options: []string{"Geotropism", "Thigmotropism", "Phototropism", "Hydrotropism"},
			Correct: 2,
		},
		{
			Prompt:  "Which secondary metabolite is responsible for the red color in many flowers?",
			Options: []string{"Chlorophyll", "Carotenoids", "Anthocyanins", "Tannins"},
			Correct: 2,
		},
		{
			Prompt:  "What is the term for the symbiotic relationship between plant roots and fungi?",
			Options: []string{"Rhizobia", "Mycorrhizae", "Lichens", "Endophytes"},
			Correct: 1,
		},
		{
			Prompt:  "Which plant hormone inhibits seed germination and promotes dormancy?",
			Options: []string{"Auxin", "Gibberellin", "Abscisic acid", "Cytokinin"},
			Correct: 2,
		},
		{
			Prompt:  "What is the C4 pathway an adaptation for?",
			Options: []string{"Cold tolerance", "Drought resistance", "High light intensity", "Low CO2 concentration"},
			Correct: 3,
		},
		{
			Prompt:  "Which structure in chloroplasts contains the photosynthetic pigments?",
			Options: []string{"Stroma", "Thylakoids", "Granum", "Intermembrane space"},
			Correct: 1,
		},
		{
			Prompt:  "What is allelopathy in plants?",
			Options: []string{"Self-fertilization", "Chemical inhibition of other plants", "Rapid growth response", "Seasonal flowering"},
			Correct: 1,
		},
		{
			Prompt:  "Which type of plant tissue is responsible for secondary growth?",
			Options: []string{"Parenchyma", "Collenchyma", "Cambium", "Sclerenchyma"},
			Correct: 2,
		},
	},
}

// QuestionBank returns the questions for a level, or nil for an unknown
// level. Callers must not modify the result.
func QuestionBank(level models.QuizLevel) []Question {
	return questionBanks[level]
}
