package controllers

import (
	"context"
	"net/http"
	"time"

	"mesto-restful/models"
	"mesto-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CardController serves the card collection, deletion and likes.
type CardController struct {
	cardService services.CardService
	authFilter  restful.FilterFunction
	logger      *zap.Logger
}

func NewCardController(cardService services.CardService, authFilter restful.FilterFunction, logger *zap.Logger) *CardController {
	return &CardController{cardService: cardService, authFilter: authFilter, logger: logger}
}

// CardResponse is a card with its owner and likes resolved to public profiles.
// IsLiked is from the point of view of the user making the request.
type CardResponse struct {
	ID        uuid.UUID      `json:"_id"`
	Name      string         `json:"name"`
	Link      string         `json:"link"`
	Owner     UserResponse   `json:"owner"`
	Likes     []UserResponse `json:"likes"`
	IsLiked   bool           `json:"isLiked"`
	CreatedAt time.Time      `json:"createdAt"`
}

func mapModelToCardResponse(card *models.Card, viewer uuid.UUID) CardResponse {
	likes := make([]UserResponse, len(card.Likes))
	for i := range card.Likes {
		likes[i] = mapModelToUserResponse(&card.Likes[i])
	}
	return CardResponse{
		ID:        card.ID,
		Name:      card.Name,
		Link:      card.Link,
		Owner:     mapModelToUserResponse(&card.Owner),
		Likes:     likes,
		IsLiked:   card.LikedBy(viewer),
		CreatedAt: card.CreatedAt,
	}
}

// RegisterRoutes sets up the card routes. Every one of them requires a session.
func (ctl *CardController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/cards").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Filter(ctl.authFilter)
	tags := []string{"cards"}
	cardID := ws.PathParameter("card-id", "Identifier of the card").DataType("string")

	ws.Route(ws.GET("").To(ctl.listCardsHandler).
		Doc("List all cards, newest first").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]CardResponse{}).
		Returns(http.StatusOK, "Cards listed", []CardResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}))

	ws.Route(ws.POST("").To(ctl.createCardHandler).
		Doc("Create a card owned by the signed-in user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateCardInput{}).
		Returns(http.StatusCreated, "Card created", CardResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}))

	ws.Route(ws.DELETE("/{card-id}").To(ctl.deleteCardHandler).
		Doc("Delete a card. Only its owner may do this").
		Param(cardID).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Card deleted", MessageResponse{}).
		Returns(http.StatusBadRequest, "Invalid card ID", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}).
		Returns(http.StatusForbidden, "Not the owner", MessageResponse{}).
		Returns(http.StatusNotFound, "Card not found", MessageResponse{}))

	ws.Route(ws.PUT("/{card-id}/likes").To(ctl.likeCardHandler).
		AllowedMethodsWithoutContentType([]string{http.MethodPut}).
		Doc("Like a card. Liking twice changes nothing").
		Param(cardID).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Card liked", CardResponse{}).
		Returns(http.StatusBadRequest, "Invalid card ID", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}).
		Returns(http.StatusNotFound, "Card not found", MessageResponse{}))

	ws.Route(ws.DELETE("/{card-id}/likes").To(ctl.unlikeCardHandler).
		Doc("Remove a like. Removing an absent like changes nothing").
		Param(cardID).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Like removed", CardResponse{}).
		Returns(http.StatusBadRequest, "Invalid card ID", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}).
		Returns(http.StatusNotFound, "Card not found", MessageResponse{}))
}

// listCardsHandler (Handles GET /cards)
func (ctl *CardController) listCardsHandler(request *restful.Request, response *restful.Response) {
	actor, err := actingUser(request)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	cards, err := ctl.cardService.ListCards(request.Request.Context())
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	out := make([]CardResponse, len(cards))
	for i := range cards {
		out[i] = mapModelToCardResponse(&cards[i], actor)
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, out, restful.MIME_JSON)
}

// createCardHandler (Handles POST /cards)
func (ctl *CardController) createCardHandler(request *restful.Request, response *restful.Response) {
	actor, err := actingUser(request)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	input := new(services.CreateCardInput)
	if err := readBody(request, input); err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	card, err := ctl.cardService.CreateCard(request.Request.Context(), actor, input)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, mapModelToCardResponse(card, actor), restful.MIME_JSON)
}

// deleteCardHandler (Handles DELETE /cards/{card-id})
func (ctl *CardController) deleteCardHandler(request *restful.Request, response *restful.Response) {
	actor, err := actingUser(request)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	if err := ctl.cardService.DeleteCard(request.Request.Context(), request.PathParameter("card-id"), actor); err != nil {
		writeError(response, err, ctl.logger)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, MessageResponse{Message: "Card deleted"}, restful.MIME_JSON)
}

// likeCardHandler (Handles PUT /cards/{card-id}/likes)
func (ctl *CardController) likeCardHandler(request *restful.Request, response *restful.Response) {
	ctl.toggleLike(request, response, ctl.cardService.LikeCard)
}

// unlikeCardHandler (Handles DELETE /cards/{card-id}/likes)
func (ctl *CardController) unlikeCardHandler(request *restful.Request, response *restful.Response) {
	ctl.toggleLike(request, response, ctl.cardService.UnlikeCard)
}

func (ctl *CardController) toggleLike(request *restful.Request, response *restful.Response,
	toggle func(ctx context.Context, rawID string, actor uuid.UUID) (*models.Card, error)) {
	actor, err := actingUser(request)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	card, err := toggle(request.Request.Context(), request.PathParameter("card-id"), actor)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToCardResponse(card, actor), restful.MIME_JSON)
}
