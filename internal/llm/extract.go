package llm

import (
	"context"
	"fmt"

	"github.com/yksassistant/hakem/internal/model"
)

// ExtractSystemPrompt asks a vision model to transcribe a question image into extract_v1 JSON
const ExtractSystemPrompt = `Sen bir sınav sorusu okuma sistemisin. Sana verilen TYT/AYT/YKS tarzı soru görselini oku ve içeriğini aşağıdaki JSON yapısında döndür.

{
  "schema": "extract_v1",
  "id": "q_001",
  "question_text": "...",
  "choices": {"A": "...", "B": "...", "C": "...", "D": "...", "E": "..."},
  "figures_desc": "Şekil, grafik veya tablo betimlemesi; yoksa boş.",
  "topic_hint": "Varsa konu tahmini.",
  "language": "tr",
  "extraction_notes": "Okunamayan kısımlar veya ek notlar.",
  "extraction_confidence": 0.95
}

Kurallar:
1. question_text soru kökünü eksiksiz içermeli; soru numarasını yazma.
2. choices değerlerine şık harfini (A), B) vb.) ekleme.
3. Şekil varsa görmeyen birine anlatır gibi ayrıntılı betimle.
4. extraction_confidence 0.0 ile 1.0 arasında olmalı.
5. Yalnızca geçerli JSON döndür; açıklama veya kod bloğu ekleme.`

// ExtractPipeline names the extraction step in call logs
const ExtractPipeline = "measure"

// ExtractQuestion reads one question image into a validated extract_v1 record
func ExtractQuestion(ctx context.Context, p Provider, img Image, requestID string) (*model.ExtractV1, error) {
	if p == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	req := GenerateRequest{
		System: ExtractSystemPrompt,
		Prompt: "Görseldeki soruyu JSON olarak çıkar.",
		Images: []Image{img},
	}
	out, err := RunWithContract[model.ExtractV1](ctx, p, req, Call{
		Pipeline:  ExtractPipeline,
		RequestID: requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("extract question: %w", err)
	}
	return out, nil
}
