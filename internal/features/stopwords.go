package features

// englishStopWords is the English stop list applied before n-gram
// extraction. Words shorter than three letters never survive normalization
// and are left out.
var englishStopWords = toSet([]string{
	"about", "above", "across", "after", "afterwards", "again", "against", "all",
	"almost", "alone", "along", "already", "also", "although", "always", "among",
	"amongst", "amount", "and", "another", "any", "anyhow", "anyone", "anything",
	"anyway", "anywhere", "are", "around", "back", "became", "because", "become",
	"becomes", "becoming", "been", "before", "beforehand", "behind", "being",
	"below", "beside", "besides", "between", "beyond", "both", "but", "can",
	"cannot", "could", "did", "does", "doing", "done", "down", "due", "during",
	"each", "either", "else", "elsewhere", "enough", "etc", "even", "ever",
	"every", "everyone", "everything", "everywhere", "except", "few", "for",
	"former", "formerly", "from", "further", "had", "has", "have", "having",
	"hence", "her", "here", "hereafter", "hereby", "herein", "hers", "herself",
	"him", "himself", "his", "how", "however", "indeed", "into", "its", "itself",
	"just", "last", "latter", "least", "less", "many", "may", "meanwhile",
	"might", "more", "moreover", "most", "mostly", "much", "must", "myself",
	"namely", "neither", "never", "nevertheless", "next", "nobody", "none",
	"noone", "nor", "not", "nothing", "now", "nowhere", "off", "often", "once",
	"one", "only", "onto", "other", "others", "otherwise", "our", "ours",
	"ourselves", "out", "over", "own", "per", "perhaps", "please", "rather",
	"same", "seem", "seemed", "seeming", "seems", "several", "she", "should",
	"since", "some", "somehow", "someone", "something", "sometime", "sometimes",
	"somewhere", "still", "such", "than", "that", "the", "their", "them",
	"themselves", "then", "thence", "there", "thereafter", "thereby",
	"therefore", "therein", "thereupon", "these", "they", "this", "those",
	"though", "through", "throughout", "thru", "thus", "together", "too",
	"toward", "towards", "under", "until", "upon", "very", "via", "was", "were",
	"what", "whatever", "when", "whence", "whenever", "where", "whereafter",
	"whereas", "whereby", "wherein", "whereupon", "wherever", "whether",
	"which", "while", "whither", "who", "whoever", "whole", "whom", "whose",
	"why", "will", "with", "within", "without", "would", "yet", "you", "your",
	"yours", "yourself", "yourselves",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether word is in the English stop list.
func IsStopWord(word string) bool {
	_, ok := englishStopWords[word]
	return ok
}
