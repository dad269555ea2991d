package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"refuge/internal/domain"
	"refuge/internal/repository"
	"refuge/internal/service"
)

type animalReq struct {
	Name                 string          `json:"name"`
	Species              string          `json:"species"`
	Breed                string          `json:"breed"`
	BirthDate            time.Time       `json:"birth_date"`
	Sex                  domain.Sex      `json:"sex"`
	Description          string          `json:"description"`
	ImageURL             string          `json:"image_url"`
	AvailableForAdoption bool            `json:"available_for_adoption"`
	AvailableForFoster   bool            `json:"available_for_foster"`
	CareType             domain.CareType `json:"care_type"`
	ReservationDate      *time.Time      `json:"reservation_date"`
	EndDate              *time.Time      `json:"end_date"`
}

func (r animalReq) animal(id int64) domain.Animal {
	return domain.Animal{
		ID:                   id,
		Name:                 r.Name,
		Species:              r.Species,
		Breed:                r.Breed,
		BirthDate:            r.BirthDate,
		Sex:                  r.Sex,
		Description:          r.Description,
		ImageURL:             r.ImageURL,
		AvailableForAdoption: r.AvailableForAdoption,
		AvailableForFoster:   r.AvailableForFoster,
		CareType:             r.CareType,
		ReservationDate:      r.ReservationDate,
		EndDate:              r.EndDate,
	}
}

type animalResp struct {
	domain.Animal
	Age          int  `json:"age"`
	InFosterCare bool `json:"in_foster_care"`
}

func toAnimalResp(a domain.Animal, now time.Time) animalResp {
	return animalResp{Animal: a, Age: a.Age(now), InFosterCare: a.InFosterCare(now)}
}

// @Summary List animals
// @Tags animals
// @Produce json
// @Param species query string false "Species contains"
// @Param available_for_adoption query bool false "Adoption availability"
// @Param available_for_foster query bool false "Foster availability"
// @Param care_type query string false "Temporary or Permanent"
// @Success 200 {array} animalResp
// @Failure 400 {object} errorBody
// @Router /animals [get]
func (s *Server) listAnimals(c *gin.Context) {
	f := repository.AnimalFilter{Species: c.Query("species"), CareType: domain.CareType(c.Query("care_type"))}
	var err error
	if f.AvailableForAdoption, err = queryBool(c, "available_for_adoption"); err != nil {
		badRequest(c, "invalid available_for_adoption")
		return
	}
	if f.AvailableForFoster, err = queryBool(c, "available_for_foster"); err != nil {
		badRequest(c, "invalid available_for_foster")
		return
	}
	list, err := s.Animals.List(c, f)
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now()
	out := make([]animalResp, 0, len(list))
	for _, a := range list {
		out = append(out, toAnimalResp(a, now))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Animal by id
// @Tags animals
// @Produce json
// @Param id path int true "Animal ID"
// @Success 200 {object} animalResp
// @Failure 404 {object} errorBody
// @Router /animals/{id} [get]
func (s *Server) getAnimal(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	a, err := s.Animals.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResp(*a, time.Now()))
}

// @Summary Create animal
// @Tags animals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body animalReq true "Animal"
// @Success 201 {object} animalResp
// @Failure 400 {object} errorBody
// @Router /animals [post]
func (s *Server) createAnimal(c *gin.Context) {
	var req animalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	a, err := s.Animals.Create(c, req.animal(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAnimalResp(*a, time.Now()))
}

// @Summary Update animal
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Animal ID"
// @Param input body animalReq true "Animal"
// @Success 200 {object} animalResp
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /admin/animals/{id} [put]
func (s *Server) updateAnimal(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	var req animalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	a, err := s.Animals.Update(c, req.animal(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResp(*a, time.Now()))
}

// @Summary Delete animal with its requests
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Animal ID"
// @Success 204
// @Failure 404 {object} errorBody
// @Router /admin/animals/{id} [delete]
func (s *Server) deleteAnimal(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	if err := s.Animals.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type requestReq struct {
	AnimalID int64           `json:"animal_id"`
	Message  string          `json:"message"`
	CareType domain.CareType `json:"care_type"`
}

// createRequest заявка требует, чтобы животное было доступно для этого вида заявки
//
// @Summary Submit adoption or foster request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body requestReq true "Request"
// @Success 201 {object} domain.AnimalRequest
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /adoption-requests [post]
// @Router /foster-requests [post]
func (s *Server) createRequest(kind domain.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requestReq
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid json")
			return
		}
		r, err := s.Requests.Submit(c, kind, identity(c).UserID, req.AnimalID, req.Message, req.CareType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

// @Summary List requests; admins see all
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param animal_id query int false "Animal ID"
// @Param status query string false "Pending, Accepted or Refused"
// @Success 200 {array} domain.AnimalRequest
// @Router /adoption-requests [get]
// @Router /foster-requests [get]
func (s *Server) listRequests(kind domain.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := repository.RequestFilter{Kind: kind, Status: domain.RequestStatus(c.Query("status"))}
		if v := c.Query("animal_id"); v != "" {
			id, err := parseID(v)
			if err != nil {
				badRequest(c, "invalid animal_id")
				return
			}
			f.AnimalID = id
		}
		id := identity(c)
		list, err := s.Requests.List(c, id.UserID, id.IsAdmin(), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Request by id
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} domain.AnimalRequest
// @Failure 404 {object} errorBody
// @Router /adoption-requests/{id} [get]
// @Router /foster-requests/{id} [get]
func (s *Server) getRequest(kind domain.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, err := parseID(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid id")
			return
		}
		id := identity(c)
		r, err := s.Requests.Get(c, kind, id.UserID, id.IsAdmin(), rid)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// @Summary Withdraw request
// @Tags requests
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 204
// @Failure 404 {object} errorBody
// @Router /adoption-requests/{id} [delete]
// @Router /foster-requests/{id} [delete]
func (s *Server) deleteRequest(kind domain.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, err := parseID(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid id")
			return
		}
		id := identity(c)
		if err := s.Requests.Delete(c, kind, id.UserID, id.IsAdmin(), rid); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type decisionReq struct {
	Status domain.RequestStatus `json:"status"`
}

// @Summary Accept or refuse a pending request and notify the requester
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param input body decisionReq true "Decision"
// @Success 200 {object} domain.AnimalRequest
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /admin/adoption-requests/{id}/status [patch]
// @Router /admin/foster-requests/{id}/status [patch]
func (s *Server) decideRequest(kind domain.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, err := parseID(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid id")
			return
		}
		var req decisionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid json")
			return
		}
		r, err := s.Requests.Decide(c, kind, rid, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// @Summary Notifications, unread only unless all=true
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include read"
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (s *Server) listNotifications(c *gin.Context) {
	all, err := queryBool(c, "all")
	if err != nil {
		badRequest(c, "invalid all")
		return
	}
	list, err := s.Notifications.List(c, identity(c).UserID, all != nil && *all)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Mark notification read
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 404 {object} errorBody
// @Router /notifications/{id}/read [post]
func (s *Server) markNotificationRead(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	if err := s.Notifications.MarkRead(c, identity(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /notifications/read-all [post]
func (s *Server) markAllNotificationsRead(c *gin.Context) {
	n, err := s.Notifications.MarkAllRead(c, identity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Router /me [get]
func (s *Server) getMe(c *gin.Context) {
	u, err := s.Users.Get(c, identity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.ProfileInput true "Profile"
// @Success 200 {object} domain.User
// @Failure 400 {object} errorBody
// @Router /me [put]
func (s *Server) updateMe(c *gin.Context) {
	var in service.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid json")
		return
	}
	u, err := s.Users.UpdateProfile(c, identity(c).UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Delete user with cart, orders, requests and notifications
// @Tags admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} errorBody
// @Router /admin/users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	if err := s.Users.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
