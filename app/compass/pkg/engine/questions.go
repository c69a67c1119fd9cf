package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/parse"
)

const structuredExecutives = "Responde ÚNICAMENTE con un arreglo JSON de objetos con las claves \"name\" y \"title\", " +
	"sin texto adicional. Si no hay datos suficientes responde []."

const structuredNews = "Responde ÚNICAMENTE con un arreglo JSON de objetos con las claves \"title\" y \"link\", " +
	"sin texto adicional. Si no encuentras noticias responde []."

// BuildPrompt 生成栏目对应的确定性指令，只有高管栏目附带目录线索
func BuildPrompt(slot model.Slot, mode model.Mode, req model.ReportRequest, directoryHint string) string {
	company := req.Company
	where := ""
	if req.Country != "" {
		where = " en " + req.Country
	}

	switch slot {
	case model.SlotExecutives:
		prompt := fmt.Sprintf("Usa SOLO la siguiente información recopilada desde Google/SerpAPI para identificar "+
			"a directivos de %s%s. No inventes nada.\n\n", company, where)
		if mode == model.ModeStructured {
			prompt += structuredExecutives + "\n\n"
		}
		return prompt + "=== DATOS GOOGLE ===\n" + directoryHint

	case model.SlotMissionVision:
		return fmt.Sprintf("Busca misión y visión corporativa de %s. "+
			"Si no existe explícitamente, resume propósito corporativo desde 'Quiénes somos'.", company)

	case model.SlotNews:
		prompt := fmt.Sprintf("Da 3 noticias relevantes de %s%s (últimos 12 meses). ", company, where)
		if mode == model.ModeStructured {
			return prompt + structuredNews
		}
		return prompt + "Formato: 1 línea por noticia + link."

	default:
		return fmt.Sprintf("Devuelve SOLO la URL oficial principal de %s.", company)
	}
}

// ModeFor 返回栏目配置的解析策略，使命与官网始终为文本
func (e *Engine) ModeFor(slot model.Slot) model.Mode {
	if slot != model.SlotExecutives && slot != model.SlotNews {
		return model.ModeText
	}
	if m, ok := e.cfg.Report.Modes[slot.String()]; ok && model.Mode(m) == model.ModeStructured {
		return model.ModeStructured
	}
	return model.ModeText
}

// AnswerQuestion 查询单个栏目。上游或解析失败不会中断报告，
// 文本模式写入占位文字，结构化模式返回空列表，并在 Err 上记录原因。
func (e *Engine) AnswerQuestion(ctx context.Context, slot model.Slot, req model.ReportRequest, directoryHint string) model.Answer {
	mode := e.ModeFor(slot)
	answer := model.Answer{Slot: slot, Mode: mode}
	log := e.log.WithField("slot", slot.String())

	text, err := e.generate(ctx, BuildPrompt(slot, mode, req, directoryHint))
	if err != nil {
		log.WithField("kind", model.KindOf(err)).Errorf("slot query failed: %v", err)
		answer.Err = err
		switch {
		case mode == model.ModeText:
			answer.Text = model.Placeholder(slot, err)
		case slot == model.SlotExecutives:
			answer.Executives = []model.Executive{}
		default:
			answer.News = []model.NewsItem{}
		}
		return answer
	}

	if mode == model.ModeText {
		answer.Text = strings.TrimSpace(text)
		return answer
	}

	var stage parse.Stage
	if slot == model.SlotExecutives {
		stage = parse.Array(text, &answer.Executives)
	} else {
		stage = parse.Array(text, &answer.News)
	}
	if stage == parse.StageEmpty {
		answer.Err = model.NewFailure(model.FailureDecode, slot.String()+" parse", fmt.Errorf("no json array in response"))
		log.Warn("structured answer could not be parsed, using empty list")
	} else {
		log.Debugf("structured answer parsed at stage %s", stage)
	}
	return answer
}

// generate 按固定间隔调用模型，不做重试
func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", model.NewFailure(model.FailureTransport, "pacing", err)
	}

	if timeout := e.cfg.LLM.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return e.generator.Generate(ctx, prompt)
}
