package locale

// Message IDs
const (
	ToolNotFound         = "tool.not_found"
	ToolInvalidArguments = "tool.invalid_arguments"
	ToolInternalError    = "tool.internal_error"

	PageNoContent = "page.no_content"

	WebSearchEmptyQuery   = "web_search.empty_query"
	WebSearchNetworkError = "web_search.network_error"
	WebSearchBackendError = "web_search.backend_error"
	WebSearchNotFound     = "web_search.not_found"
	WebSearchReport       = "web_search.report"

	CryptoEmptyAsset   = "crypto.empty_asset"
	CryptoSearchError  = "crypto.search_error"
	CryptoNotFound     = "crypto.not_found"
	CryptoDetailsError = "crypto.details_error"
	CryptoReport       = "crypto.report"
)

var catalogs = map[Lang]map[string]string{
	Russian: {
		ToolNotFound:         `🚧 Инструмент {{ .Name }} не найден. Доступные инструменты: {{ join ", " .Available }}`,
		ToolInvalidArguments: `🚧 Не удалось разобрать аргументы для {{ .Name }}.`,
		ToolInternalError:    `🚧 Внутренняя ошибка инструмента {{ .Name }}.`,

		PageNoContent: `(На странице нет текста или она не загрузилась)`,

		WebSearchEmptyQuery:   `❓ Не задан поисковый запрос.`,
		WebSearchNetworkError: `Ошибка сети или поискового сервиса: {{ .Err }}`,
		WebSearchBackendError: `Ошибка во время поиска: {{ .Err }}`,
		WebSearchNotFound:     `По запросу '{{ .Query }}' ничего не найдено.`,
		WebSearchReport: `**Результаты поиска (подробно) для**: {{ .Query }}{{ if .Fresh }} (фильтр по свежим результатам){{ end }}

{{ range $i, $item := .Items }}{{ if $i }}
{{ end }}{{ add1 $i }}. [{{ $item.Title }}]({{ $item.URL }}){{ end }}`,

		CryptoEmptyAsset:   `❓ Пожалуйста, введите название или символ монеты.`,
		CryptoSearchError:  `🚧 Произошла ошибка при запросе к Coingecko /search.`,
		CryptoNotFound:     `❌ Не нашёл монету по запросу '{{ .Query }}'. Попробуйте ввести официальное название или символ (на англ.), например: BTC, bitcoin.`,
		CryptoDetailsError: `🚧 Ошибка запроса к /coins/{{ .ID }} : {{ .Err }}`,
		CryptoReport: `🪙 *{{ .Name }}* (символ: {{ .Symbol }})
💰 Текущая цена: {{ if .HasPrice }}{{ printf "%.2f" .Price }} ${{ else }}нет данных{{ end }}
📈 Изменение за 7 дней: {{ if .HasChange7d }}{{ printf "%.2f" .Change7d }}%{{ else }}N/A{{ end }}
👥 Примерно {{ printf "%.2f" .BullishPercent }}% сообщества считает, что монета будет расти

{{ if .News -}}
📰 *Последние новости*:
{{- range .News }}
• {{ .Description }} (дата: {{ .CreatedAt }})
{{- end }}
{{- else -}}
📰 Новостей не найдено на Coingecko.
{{- end }}

🤔 Мой совет: DYOR и удачи! 🚀
_Данные актуальны на {{ .GeneratedAt }}_`,
	},

	English: {
		ToolNotFound:         `🚧 Tool {{ .Name }} not found. Available tools: {{ join ", " .Available }}`,
		ToolInvalidArguments: `🚧 Failed to parse arguments for {{ .Name }}.`,
		ToolInternalError:    `🚧 Internal error in tool {{ .Name }}.`,

		PageNoContent: `(The page has no text or failed to load)`,

		WebSearchEmptyQuery:   `❓ No search query given.`,
		WebSearchNetworkError: `Network or search service error: {{ .Err }}`,
		WebSearchBackendError: `Search failed: {{ .Err }}`,
		WebSearchNotFound:     `Nothing found for '{{ .Query }}'.`,
		WebSearchReport: `**Search results (detailed) for**: {{ .Query }}{{ if .Fresh }} (recent results filter){{ end }}

{{ range $i, $item := .Items }}{{ if $i }}
{{ end }}{{ add1 $i }}. [{{ $item.Title }}]({{ $item.URL }}){{ end }}`,

		CryptoEmptyAsset:   `❓ Please enter a coin name or ticker.`,
		CryptoSearchError:  `🚧 Coingecko /search request failed.`,
		CryptoNotFound:     `❌ No coin found for '{{ .Query }}'. Try the official name or ticker, for example: BTC, bitcoin.`,
		CryptoDetailsError: `🚧 Request to /coins/{{ .ID }} failed: {{ .Err }}`,
		CryptoReport: `🪙 *{{ .Name }}* (ticker: {{ .Symbol }})
💰 Current price: {{ if .HasPrice }}{{ printf "%.2f" .Price }} ${{ else }}no data{{ end }}
📈 7 day change: {{ if .HasChange7d }}{{ printf "%.2f" .Change7d }}%{{ else }}N/A{{ end }}
👥 About {{ printf "%.2f" .BullishPercent }}% of the community expects the price to rise

{{ if .News -}}
📰 *Latest news*:
{{- range .News }}
• {{ .Description }} (date: {{ .CreatedAt }})
{{- end }}
{{- else -}}
📰 No news found on Coingecko.
{{- end }}

🤔 My advice: DYOR and good luck! 🚀
_Data as of {{ .GeneratedAt }}_`,
	},
}
