package flags

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	choicePlaceholderTemplateConstant = "<%s>"
	choiceSeparatorConstant           = "|"
	choiceUsageEmptyTemplateConstant  = "`%s`"
	choiceUsageFullTemplateConstant   = "`%s` %s"
)

// FormatChoiceUsage renders usage text such as "`<STRUCTURED|console>` Log format", upper-casing the default choice.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))

	trimmedChoices := lo.Filter(lo.Map(choices, func(choice string, _ int) string {
		return strings.TrimSpace(choice)
	}), func(choice string, _ int) bool {
		return len(choice) > 0
	})
	uniqueChoices := lo.UniqBy(trimmedChoices, strings.ToLower)

	displayedChoices := lo.Map(uniqueChoices, func(choice string, _ int) string {
		if strings.ToLower(choice) == normalizedDefault {
			return strings.ToUpper(choice)
		}
		return choice
	})

	placeholder := fmt.Sprintf(choicePlaceholderTemplateConstant, strings.Join(displayedChoices, choiceSeparatorConstant))
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, placeholder, trimmedDescription)
}
