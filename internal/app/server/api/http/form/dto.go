package form

import (
	"mime/multipart"

	"attendform/internal/domain/form"
	"attendform/internal/domain/signature"
)

type variantInput struct {
	Variant form.Variant `path:"variant" doc:"Вид формы"`
}

type pathInput struct {
	Variant form.Variant `path:"variant" doc:"Вид формы"`
	ID      string       `path:"id" maxLength:"64" example:"0b9f6c1e-3a51-4f7e-9a44-8f0c0e2b7d11" doc:"Идентификатор формы"`
}

type absenceInput struct {
	ID string `path:"id" maxLength:"64" doc:"Идентификатор формы отсутствия"`
}

type fieldsInput struct {
	pathInput
	Body fieldsRequest
}

type fieldsRequest struct {
	Fields map[string]string `json:"fields" minProperties:"1" doc:"Значения полей по имени, например name, birthDate, absenceDate"`
}

type documentInput struct {
	absenceInput
	Body documentRequest
}

type documentRequest struct {
	Name        string `json:"name" minLength:"1" example:"진단서.pdf" doc:"Имя файла"`
	ContentType string `json:"contentType,omitempty" example:"application/pdf" doc:"MIME тип; определяется по содержимому, если пуст"`
	Data        []byte `json:"data" doc:"Содержимое файла в base64"`
}

// uploadField - имя части multipart с файлом
const uploadField = "file"

type uploadInput struct {
	absenceInput
	RawBody multipart.Form
}

type sizeInput struct {
	pathInput
	Body sizeRequest
}

type sizeRequest struct {
	Width  int `json:"width" minimum:"1" maximum:"4096" example:"460"`
	Height int `json:"height" minimum:"1" maximum:"4096" example:"200"`
}

type strokesInput struct {
	pathInput
	Body signature.Stroke
}

type stateOutput struct {
	Body StateResponse
}

// StateResponse - снимок открытой формы
type StateResponse struct {
	ID        string            `json:"id"`
	Variant   form.Variant      `json:"variant"`
	Fields    map[string]string `json:"fields"`
	Document  *form.Document    `json:"document,omitempty"`
	Signature string            `json:"signature,omitempty" doc:"Подпись как data URI PNG"`
	Hydrating bool              `json:"hydrating" doc:"Вложение или подпись еще восстанавливаются"`
	Width     int               `json:"width" doc:"Ширина холста подписи"`
	Height    int               `json:"height" doc:"Высота холста подписи"`
}

type optionsOutput struct {
	Body OptionsResponse
}

type OptionsResponse struct {
	Variant form.Variant   `json:"variant"`
	Fields  []FieldOptions `json:"fields"`
}

// FieldOptions - метки поля выбора; Schema ссылается на их перечисление в компонентах OpenAPI
type FieldOptions struct {
	Field  string   `json:"field" example:"absentCategory"`
	Schema string   `json:"schema" example:"#/components/schemas/absentCategory"`
	Labels []string `json:"labels"`
}

type submitOutput struct {
	Body SubmitResponse
}

type SubmitResponse struct {
	Key    string `json:"key"`
	Route  string `json:"route" example:"/preview" doc:"Страница предпросмотра"`
	Record any    `json:"record"`
}

type recordOutput struct {
	Body RecordResponse
}

type RecordResponse struct {
	ID      string       `json:"id"`
	Variant form.Variant `json:"variant"`
	Record  any          `json:"record"`
}
