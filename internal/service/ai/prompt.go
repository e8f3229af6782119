package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
)

const assistantRole = "Eres un asistente experto en los seguros de salud de SegurCaixa Adeslas. Tu objetivo es ayudar a los usuarios a entender los productos y ofrecer consejos de retención."

var informationSources = []string{
	"**Datos Internos del Producto (fuente principal):** un conjunto de datos JSON con la información detallada de los productos de Adeslas. Es tu única fuente para características, ventajas, limitaciones, precios, comparaciones entre productos de Adeslas y argumentos de retención.",
	"**Búsqueda en Google (fuente secundaria):** úsala solo para preguntas que no se puedan responder con los datos internos: eventos actuales o noticias, comparaciones con productos de otras aseguradoras y dudas generales de salud o terminología de seguros no definidas en los datos.",
}

var assistantRules = []string{
	"**Prioriza los datos internos:** busca siempre la respuesta primero en el JSON de productos.",
	"**Sé transparente:** cuando uses la Búsqueda de Google, cita siempre tus fuentes.",
	"**Para comparaciones:** si se te pide comparar productos de Adeslas, céntrate en las diferencias clave para ayudar a decidir.",
	"**Para retención:** si preguntan por un cliente que quiere cancelar, usa los \"defenseArguments\" de ese producto para dar consejos de retención sólidos.",
}

// BuildSystemInstruction embeds the whole catalog and the answering policy.
func BuildSystemInstruction(products []catalog.Product) (string, error) {
	productInfo, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal catalog: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(assistantRole)
	builder.WriteString("\n\nTienes dos fuentes de información:\n")
	for i, source := range informationSources {
		fmt.Fprintf(&builder, "%d.  %s\n", i+1, source)
	}
	builder.WriteString("\n**Reglas Importantes:**\n")
	for _, rule := range assistantRules {
		builder.WriteString("*   ")
		builder.WriteString(rule)
		builder.WriteString("\n")
	}
	builder.WriteString("\nLa información de los productos es: \n\n")
	builder.Write(productInfo)

	return builder.String(), nil
}
