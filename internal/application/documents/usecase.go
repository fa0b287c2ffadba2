// Package documents PDF y envío de órdenes a través de las funciones serverless.
// El render del PDF y la entrega por email o WhatsApp ocurren fuera de esta API.
package documents

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/logger"
	"github.com/jhoicas/Compras-api/pkg/money"
)

// Document contenido enviado a las funciones: la orden con totales ya calculados.
type Document struct {
	Kind         string             `json:"kind"`
	CompanyName  string             `json:"company_name"`
	SupplierName string             `json:"supplier_name"`
	SupplierRIF  string             `json:"supplier_rif"`
	TotalLabel   string             `json:"total_label"` // total impreso, formato es ("VES 1.234,56")
	Order        *dto.OrderResponse `json:"order"`
}

// Delivery solicitud de envío.
type Delivery struct {
	Channel   string   `json:"channel"`
	Recipient string   `json:"recipient"`
	Message   string   `json:"message,omitempty"`
	Document  Document `json:"document"`
}

// FunctionsClient puerto hacia las funciones serverless. Debe devolver domain.ErrUnavailable
// cuando el servicio no responde o el circuito está abierto.
type FunctionsClient interface {
	GeneratePDF(ctx context.Context, doc Document) ([]byte, error)
	Send(ctx context.Context, d Delivery) (messageID string, err error)
}

// OrderService lectura y cambio de estado de órdenes (lo implementa orders.UseCase).
type OrderService interface {
	GetByID(ctx context.Context, kind entity.OrderKind, companyID, id string) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, kind entity.OrderKind, companyID, role, id, status string) (*dto.OrderResponse, error)
}

// UseCase documentos de órdenes.
type UseCase struct {
	orders    OrderService
	suppliers repository.SupplierRepository
	companies repository.CompanyRepository
	client    FunctionsClient
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	orders OrderService,
	suppliers repository.SupplierRepository,
	companies repository.CompanyRepository,
	client FunctionsClient,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		orders:    orders,
		suppliers: suppliers,
		companies: companies,
		client:    client,
		log:       log.Child("component", "documents"),
	}
}

// DownloadPDF genera el PDF de la orden y un nombre de archivo (número de la orden).
func (uc *UseCase) DownloadPDF(ctx context.Context, kind entity.OrderKind, companyID, id string) ([]byte, string, error) {
	doc, err := uc.document(ctx, kind, companyID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.client.GeneratePDF(ctx, doc)
	if err != nil {
		return nil, "", err
	}
	return pdf, doc.Order.Number + ".pdf", nil
}

// Send entrega la orden al proveedor. Un borrador enviado pasa a SENT.
func (uc *UseCase) Send(ctx context.Context, kind entity.OrderKind, companyID, role, id string, in dto.SendDocumentRequest) (*dto.SendDocumentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	doc, err := uc.document(ctx, kind, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc.Order.Status == entity.StatusArchived || doc.Order.Status == entity.StatusRejected {
		return nil, fmt.Errorf("%w: no se envían órdenes en estado %s", domain.ErrConflict, doc.Order.Status)
	}

	messageID, err := uc.client.Send(ctx, Delivery{
		Channel:   in.Channel,
		Recipient: in.Recipient,
		Message:   in.Message,
		Document:  doc,
	})
	if err != nil {
		return nil, err
	}

	status := doc.Order.Status
	if status == entity.StatusDraft {
		updated, err := uc.orders.UpdateStatus(ctx, kind, companyID, role, id, entity.StatusSent)
		if err != nil {
			// El documento ya salió; se informa el estado sin cambio.
			uc.log.Error().Err(err).Str("order_id", id).Str("message_id", messageID).Msg("orden enviada sin cambio de estado")
		} else {
			status = updated.Status
		}
	}
	uc.log.Info().Str("order_id", id).Str("channel", in.Channel).Str("message_id", messageID).Msg("orden enviada")

	return &dto.SendDocumentResponse{
		OrderID:   id,
		Channel:   in.Channel,
		Status:    status,
		MessageID: messageID,
	}, nil
}

func (uc *UseCase) document(ctx context.Context, kind entity.OrderKind, companyID, id string) (Document, error) {
	order, err := uc.orders.GetByID(ctx, kind, companyID, id)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Kind:       string(kind),
		TotalLabel: order.Currency + " " + money.FormatLocalized(order.Totals.Exact.Total, language.Spanish),
		Order:      order,
	}
	if s, err := uc.suppliers.GetByID(ctx, order.SupplierID); err != nil {
		return Document{}, err
	} else if s != nil {
		doc.SupplierName, doc.SupplierRIF = s.Name, s.RIF
	}
	if c, err := uc.companies.GetByID(ctx, companyID); err != nil {
		return Document{}, err
	} else if c != nil {
		doc.CompanyName = c.Name
	}
	return doc, nil
}
