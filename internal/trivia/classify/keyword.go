package classify

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"trivia/internal/trivia/models"
)

var categoryKeywords = map[models.Category][]string{
	models.CategoryGeography: {
		"capital", "pais", "country", "rio", "river", "montana", "mountain", "oceano", "ocean",
		"continente", "continent", "desierto", "desert", "isla", "island", "lago", "lake",
		"ciudad", "city", "frontera", "border", "volcan", "volcano", "mapa", "poblacion",
	},
	models.CategorySports: {
		"futbol", "football", "soccer", "baloncesto", "basketball", "tenis", "tennis",
		"mundial", "world cup", "olimpicos", "olympic", "jugador", "player", "equipo", "team",
		"liga", "league", "gol", "goal", "campeon", "champion", "formula 1", "maraton", "marathon",
		"ciclismo", "tour de francia", "estadio", "stadium", "nba", "balon",
	},
	models.CategoryScience: {
		"elemento", "element", "quimico", "chemical", "atomo", "atom", "planeta", "planet",
		"celula", "cell", "adn", "dna", "energia", "energy", "fisica", "physics", "biologia",
		"biology", "formula", "molecula", "molecule", "gravedad", "gravity", "sistema solar",
		"solar system", "universo", "universe", "hueso", "bone", "organo", "organ",
	},
	models.CategoryHistory: {
		"guerra", "war", "batalla", "battle", "imperio", "empire", "rey", "king", "reina", "queen",
		"revolucion", "revolution", "siglo", "century", "descubrio", "discovered", "presidente",
		"president", "independencia", "independence", "antigua", "ancient", "dinastia", "dynasty",
		"tratado", "treaty", "conquista", "faraon", "pharaoh",
	},
	models.CategoryEntertainment: {
		"pelicula", "movie", "film", "serie", "series", "actor", "actriz", "actress", "cantante",
		"singer", "cancion", "song", "album", "oscar", "director", "television", "tv", "estrella",
		"star", "banda", "band", "videojuego", "video game", "personaje", "character", "netflix",
	},
	models.CategoryArt: {
		"pinto", "painted", "pintor", "painter", "cuadro", "painting", "escultura", "sculpture",
		"museo", "museum", "obra", "artwork", "novela", "novel", "escribio", "wrote", "autor",
		"author", "poeta", "poet", "arquitecto", "architect", "opera", "sinfonia", "symphony",
		"compositor", "composer", "renacimiento", "renaissance",
	},
}

// Keyword scores the text against per-category keyword lists in English and
// Spanish. Accents are folded before matching. No hit yields Unclassified.
type Keyword struct{}

func (Keyword) Classify(_ context.Context, text string) (models.Category, error) {
	return scoreKeywords(text), nil
}

func scoreKeywords(text string) models.Category {
	folded := fold(text)
	tokens := tokenize(folded)

	best := models.Unclassified
	bestScore := 0
	for _, cat := range models.AllCategories() {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(kw, " ") {
				if strings.Contains(folded, kw) {
					score += 2
				}
				continue
			}
			for _, t := range tokens {
				if t == kw {
					score++
				}
			}
		}
		// AllCategories order breaks ties.
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}
	return best
}

// fold lower-cases s and strips combining marks, so "Geografía" and
// "geografia" match the same keyword.
func fold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
