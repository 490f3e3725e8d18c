package sanity

import "slices"

// unrealisticTerms veto an idea outright. Matching is plain substring
// containment on the lowercased idea, so stems like "levitat" cover every
// inflection.
var unrealisticTerms = []string{
	"time travel",
	"time machine",
	"teleport",
	"ghost",
	"haunted",
	"magic",
	"witchcraft",
	"sorcery",
	"spell casting",
	"telepathy",
	"telekinesis",
	"mind reading",
	"mind control",
	"psychic",
	"clairvoyan",
	"astrology",
	"horoscope",
	"fortune telling",
	"tarot",
	"crystal energy",
	"crystal healing",
	"healing crystals",
	"chakra",
	"perpetual motion",
	"free energy",
	"infinite energy",
	"unlimited energy",
	"antigravity",
	"anti-gravity",
	"levitat",
	"immortal",
	"eternal youth",
	"fountain of youth",
	"elixir of life",
	"resurrect",
	"raise the dead",
	"talk to the dead",
	"zombie",
	"vampire",
	"werewolf",
	"dragon",
	"alien abduction",
	"supernatural",
	"paranormal",
	"faster than light",
	"warp drive",
	"parallel universe",
	"alchemy",
	"lead into gold",
	"philosopher's stone",
	"cold fusion",
	"lottery prediction",
	"guaranteed lottery",
	"get rich quick",
	"cure all diseases",
}

// plausibleTerms name technologies and domains a viable idea is expected to
// mention. Short entries such as "ai" and "ev" also match inside longer
// words ("detail", "develop").
var plausibleTerms = []string{
	"ai",
	"artificial intelligence",
	"machine learning",
	"deep learning",
	"neural network",
	"nlp",
	"computer vision",
	"chatbot",
	"data",
	"analytics",
	"app",
	"platform",
	"software",
	"saas",
	"cloud",
	"api",
	"web",
	"mobile",
	"blockchain",
	"iot",
	"sensor",
	"drone",
	"robot",
	"automation",
	"3d print",
	"augmented reality",
	"virtual reality",
	"electric vehicle",
	"ev",
	"charging",
	"solar",
	"renewable",
	"wind turbine",
	"battery",
	"smart grid",
	"recycl",
	"waste",
	"crop",
	"farm",
	"agri",
	"irrigation",
	"health",
	"telemedicine",
	"medical",
	"fitness",
	"fintech",
	"payment",
	"banking",
	"insurance",
	"e-commerce",
	"ecommerce",
	"marketplace",
	"delivery",
	"logistics",
	"supply chain",
	"education",
	"edtech",
	"tutor",
	"satellite",
	"gps",
	"subscription",
	"rental",
	"booking",
}

// UnrealisticTerms returns a copy of the veto table.
func UnrealisticTerms() []string {
	return slices.Clone(unrealisticTerms)
}

// PlausibleTerms returns a copy of the domain table.
func PlausibleTerms() []string {
	return slices.Clone(plausibleTerms)
}
