package paymentprovider

import "encoding/json"

// Запрос на создание заказа (Orders v2)
type CreateOrderRequest struct {
	Intent             string             `json:"intent"` // Всегда CAPTURE
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

// PurchaseUnit описывает один оплачиваемый элемент заказа.
type PurchaseUnit struct {
	Amount      Amount `json:"amount"`
	Description string `json:"description,omitempty"`
}

// Amount — сумма заказа в строковом представлении, например "50".
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// ApplicationContext содержит redirect-ссылки после одобрения или отмены.
type ApplicationContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

// Order — ответ провайдера на создание заказа.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// Link — HATEOAS-ссылка из ответа провайдера; rel "approve" ведёт
// на страницу одобрения платежа.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// CaptureResult — ответ провайдера на capture заказа.
// Raw хранит тело ответа целиком для записи в payment_details.
type CaptureResult struct {
	ID     string          `json:"id"`
	Status string          `json:"status"` // COMPLETED при успешном списании
	Raw    json.RawMessage `json:"-"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // Секунды
}
