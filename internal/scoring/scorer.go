// Package scoring é o motor de pontuação: função pura, sem I/O.
// Quem precisa de dado externo (validade de CPF, score Serasa) coleta
// antes e entrega pronto no Context.
package scoring

import (
	"strings"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

// Chaves reconhecidas do formulário. Os formulários são configuráveis
// por tenant, então valor não reconhecido pontua zero, nunca erro.
const (
	AnswerName           = "full_name"
	AnswerPhone          = "phone"
	AnswerTaxID          = "cpf"
	AnswerEmployment     = "employment_status"
	AnswerTenure         = "clt_years"
	AnswerIncome         = "income_range"
	AnswerTriedFinancing = "tried_financing"
)

// Context carrega o resultado do enrichment síncrono que alimenta o
// score externo.
type Context struct {
	TaxIDValid  bool
	CreditScore *int
}

type Result struct {
	Internal int
	External int
	// Raw é o score Serasa bruto, repassado sem ajuste para exibição.
	Raw *int
}

func (r Result) Total() int { return r.Internal + r.External }

var normalizer = strings.NewReplacer(
	" ", "",
	"r$", "",
	".", "",
	",", "",
	"-", "",
	"–", "",
)

// Normalize elimina a variação de digitação entre formulários:
// "Mais de 3 anos" e "mais de 3  anos" viram a mesma coisa.
func Normalize(s string) string {
	return normalizer.Replace(strings.ToLower(s))
}

// Score calcula (interno, externo, raw) a partir das respostas e do
// contexto de enriquecimento. Interno é limitado a [0, 100]; externo
// não tem teto.
func Score(answers map[string]string, ctx Context, plan entity.Plan) Result {
	var res Result

	tenure := Normalize(answers[AnswerTenure])
	switch {
	case strings.Contains(tenure, "maisde3") || strings.Contains(tenure, "acimade3"):
		res.Internal += 30
	case strings.Contains(tenure, "2a3") || strings.Contains(tenure, "23anos"):
		res.Internal += 15
	}

	// "R$3.000 - R$5.000" -> "30005000" / "Acima de R$5.000" -> "acimade5000"
	income := Normalize(answers[AnswerIncome])
	switch {
	case strings.Contains(income, "3000") && strings.Contains(income, "5000"):
		res.Internal += 25
	case strings.Contains(income, "acima") && strings.Contains(income, "5000"):
		res.Internal += 25
	case strings.Contains(income, "maisde5000"):
		res.Internal += 25
	}

	switch Normalize(answers[AnswerTriedFinancing]) {
	case "nao", "não", "nunca":
		res.Internal += 20
	}

	if strings.TrimSpace(answers[AnswerPhone]) != "" {
		res.Internal += 10
	}

	if res.Internal > 100 {
		res.Internal = 100
	}

	if ctx.TaxIDValid {
		res.External += 10
		if plan.Paid() && ctx.CreditScore != nil {
			res.Raw = ctx.CreditScore
			switch {
			case *ctx.CreditScore >= 700:
				res.External += 50
			case *ctx.CreditScore >= 500:
				res.External += 20
			}
		}
	}

	return res
}

// Classify traduz o score somado em bucket. Limite inferior inclusivo:
// 70 exato é hot, 40 exato é warm.
func Classify(total int) string {
	switch {
	case total >= 70:
		return entity.StatusHot
	case total >= 40:
		return entity.StatusWarm
	default:
		return entity.StatusCold
	}
}
