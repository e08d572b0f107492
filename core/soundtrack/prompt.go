package soundtrack

import "fmt"

// SystemPrompt is sent as the system message of every request.
const SystemPrompt = "You are a helpful assistant that finds the locations where a song was used in movies, TV series, or telenovelas. Always respond with a valid JSON, no additional text before or after."

// DefaultMaxResults is the number of mentions the prompt asks for.
const DefaultMaxResults = 3

const promptTemplate = `ATENÇÃO: Especialista em trilhas sonoras! Siga À RISCA as regras abaixo.

1. IDIOMA: Português Brasileiro (use os títulos lançados no Brasil).

2. FORMATO JSON:
{
  "locations": [
    {
      "type": "Filme" ou "Série" ou "Novela",
      "title": "Título BR",
      "year": 1994,
      "season": "",
      "episode": "",
      "rating": "",
      "singer": ""
    }
  ]
}
   - season e episode: APENAS para séries
   - rating: no formato "X.Y/Z" (ex: "8.5/10")
   - singer: artista da versão USADA, apenas se diferente do original

3. REGRAS DE CONTEÚDO:
   - Priorize velocidade sobre completude
   - Preencha APENAS campos que você sabe de MEMÓRIA
   - Use apenas seu conhecimento pré-treinado, sem validar em fontes externas

4. EXEMPLO:
{
  "locations": [
    {
      "type": "Filme",
      "title": "O Guarda-Costas",
      "year": 1992,
      "singer": "Whitney Houston"
    }
  ]
}

SUA TAREFA PARA '%s':
- Máximo %d resultados
- Campos vazios ("") são aceitáveis
- JSON VÁLIDO SEM comentários`

// BuildPrompt returns the user prompt for query asking for at most
// maxResults mentions. A non-positive maxResults uses DefaultMaxResults.
func BuildPrompt(query string, maxResults int) string {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return fmt.Sprintf(promptTemplate, query, maxResults)
}
