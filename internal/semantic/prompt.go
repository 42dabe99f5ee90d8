package semantic

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the validation request as the structured Portuguese
// prompt the backend expects. The response schema in the prompt mirrors the
// wire types in this package exactly.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Sua tarefa é validar a extração de subsídios (tipos de documentos solicitados) de um ofício judicial.\n\n")

	b.WriteString("## OFÍCIO COMPLETO:\n```\n")
	b.WriteString(req.DocumentText)
	b.WriteString("\n```\n\n")

	b.WriteString("## SUBSÍDIOS JÁ IDENTIFICADOS PELO SISTEMA (similaridade lexical):\n")
	if len(req.LexicalMatches) == 0 {
		b.WriteString("Nenhum match identificado\n")
	}
	for i, m := range req.LexicalMatches {
		fmt.Fprintf(&b, "Match %d: ID %s (score %.2f)\n  Texto encontrado: %q\n", i+1, m.CatalogID, m.Score, m.TextSpan)
	}

	b.WriteString("\n## FRAGMENTOS NÃO IDENTIFICADOS:\n")
	if len(req.UnmatchedFragments) == 0 {
		b.WriteString("Nenhum\n")
	}
	for _, f := range req.UnmatchedFragments {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	b.WriteString("\n## CATÁLOGO DE SUBSÍDIOS DISPONÍVEIS:\n")
	for _, e := range req.CatalogSubset {
		fmt.Fprintf(&b, "ID: %s | Nome: %s | Descrição: %s\n", e.ID, e.Name, e.Description)
	}

	b.WriteString(`
## SUAS TAREFAS:
1. Para cada match identificado: ele faz sentido no contexto do ofício? Qual é a frase EXATA onde o subsídio foi mencionado? Como essa solicitação poderia virar um exemplo curto e genérico do catálogo?
2. Há algum subsídio solicitado no ofício que NÃO está na lista de matches? Se existir no catálogo, informe o catalogo_id_sugerido; se for totalmente novo, marque e_subsidio_novo.
3. Os fragmentos não identificados correspondem a algum subsídio do catálogo?

## FORMATO DE RESPOSTA (apenas JSON, sem texto adicional):
{
  "validacoes": [
    {"subsidio_id": "1", "e_valido": true, "confidence": 0.95, "texto_evidencia": "...", "justificativa": "...", "sugestao_exemplo": "..."}
  ],
  "subsidios_novos": [
    {"texto_solicitacao": "...", "texto_evidencia": "...", "catalogo_id_sugerido": "3", "e_subsidio_novo": false, "justificativa": "..."}
  ],
  "todos_subsidios_capturados": true,
  "confidence_geral": 0.9,
  "observacoes": "..."
}

## INSTRUÇÕES IMPORTANTES:
1. Seja rigoroso: rejeite matches que não fazem sentido.
2. Extraia a frase EXATA do ofício, não parafraseie.
3. Confidence entre 0.0 e 1.0.
`)

	return b.String()
}
