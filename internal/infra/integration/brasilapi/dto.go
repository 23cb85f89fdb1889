package brasilapi

import "encoding/json"

// RegistryRecord é o subconjunto do payload que o pipeline entende.
// O resto fica guardado bruto em public_api_data.
type RegistryRecord struct {
	Nome string `json:"nome"`
	Name string `json:"name"`
}

// PersonName extrai o nome do payload bruto, tentando as duas grafias
// que a API já usou. Vazio se o payload não tiver nenhum.
func PersonName(raw json.RawMessage) string {
	var rec RegistryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ""
	}
	if rec.Nome != "" {
		return rec.Nome
	}
	return rec.Name
}
