package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"food-suggester/internal/choice"
	"food-suggester/internal/planner"
	"food-suggester/internal/recipe"
	"food-suggester/internal/shared"

	"go.uber.org/zap"
)

type basePage struct {
	Nav   string
	Flash string
	Error string
}

// addError appends msg so that one failure does not hide another.
func (p *basePage) addError(msg string) {
	if p.Error != "" {
		p.Error += " "
	}
	p.Error += msg
}

type choosePage struct {
	basePage
	Date        string
	Suggestions planner.Suggestions
	Plan        planner.DayPlan
	Slots       []choice.Slot
}

type addPage struct {
	basePage
	Name string
}

type recipesPage struct {
	basePage
	Recipes []recipe.Numbered
	Choices []choice.Choice
}

func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) {
	date := shared.DateOf(s.now())
	var dateErr string
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			dateErr = err.Error()
		} else {
			date = parsed
		}
	}

	page := s.buildChoosePage(r, date)
	if dateErr != "" {
		page.addError(dateErr)
	}
	s.render(w, http.StatusOK, "choose", page)
}

// buildChoosePage loads everything the Choose Food view shows. Store errors
// become a visible message and leave the lists empty.
func (s *Server) buildChoosePage(r *http.Request, date time.Time) choosePage {
	page := choosePage{
		basePage: basePage{Nav: "choose"},
		Date:     shared.FormatDate(date),
		Slots:    choice.Slots,
	}

	suggestions, err := s.planner.SuggestFor(r.Context(), date)
	if err != nil {
		s.log.Error("failed to load suggestions", zap.Error(err))
		page.addError(fmt.Sprintf("Error loading suggestions: %v", err))
		suggestions = planner.Suggestions{Date: date}
	}
	page.Suggestions = suggestions

	plan, err := s.planner.DayPlan(r.Context(), date)
	if err != nil {
		s.log.Error("failed to load day plan", zap.Error(err))
		page.addError(fmt.Sprintf("Error loading chosen foods: %v", err))
		plan = planner.DayPlan{Date: date}
	}
	page.Plan = plan

	return page
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	date := shared.DateOf(s.now())
	if raw := r.PostForm.Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			page := s.buildChoosePage(r, date)
			page.addError(err.Error())
			s.render(w, http.StatusUnprocessableEntity, "choose", page)
			return
		}
		date = parsed
	}

	result, err := s.finalize(r, date)

	// Load the page after the write so the new choice is visible.
	page := s.buildChoosePage(r, date)
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
		page.addError(finalizeErrorMessage(err))
	} else {
		page.Flash = fmt.Sprintf("'%s' finalized for %s!", result.RecipeName, strings.ToLower(string(result.Slot)))
	}
	s.render(w, status, "choose", page)
}

func (s *Server) finalize(r *http.Request, date time.Time) (planner.Finalized, error) {
	number, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("number")))
	if err != nil {
		return planner.Finalized{}, fmt.Errorf("%w: %q", planner.ErrInvalidSelection, r.PostForm.Get("number"))
	}

	slot, err := choice.ParseSlot(r.PostForm.Get("slot"))
	if err != nil {
		return planner.Finalized{}, err
	}

	return s.planner.Finalize(r.Context(), planner.Selection{
		Number:       number,
		Slot:         slot,
		Date:         date,
		ExpectedName: strings.TrimSpace(r.PostForm.Get("expected")),
	})
}

func finalizeErrorMessage(err error) string {
	switch {
	case errors.Is(err, planner.ErrInvalidSelection):
		return "Invalid recipe choice."
	case errors.Is(err, planner.ErrStaleSelection):
		return "The recipe list changed since it was shown. Please choose again."
	case errors.Is(err, choice.ErrInvalidSlot):
		return "Please choose Morning or Evening."
	default:
		return fmt.Sprintf("Error finalizing recipe: %v", err)
	}
}

func (s *Server) handleNewRecipe(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "add", addPage{basePage: basePage{Nav: "add"}})
}

func (s *Server) handleAddRecipe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	page := addPage{basePage: basePage{Nav: "add"}}
	name := strings.TrimSpace(r.PostForm.Get("name"))

	if name == "" {
		if url := strings.TrimSpace(r.PostForm.Get("url")); url != "" {
			clipped, err := s.clipper.RecipeName(r.Context(), url)
			if err != nil {
				s.log.Warn("failed to clip recipe name", zap.String("url", url), zap.Error(err))
				page.Error = fmt.Sprintf("Error adding recipe: %v", err)
				s.render(w, http.StatusUnprocessableEntity, "add", page)
				return
			}
			name = clipped
		}
	}

	rec, err := s.planner.AddRecipe(r.Context(), name)
	if err != nil {
		page.Name = name
		page.Error = fmt.Sprintf("Error adding recipe: %v", err)
		s.render(w, http.StatusUnprocessableEntity, "add", page)
		return
	}

	page.Flash = fmt.Sprintf("Recipe '%s' added successfully!", rec.Name)
	s.render(w, http.StatusOK, "add", page)
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	page := recipesPage{basePage: basePage{Nav: "recipes"}}

	recipes, err := s.planner.ListRecipes(r.Context())
	if err != nil {
		s.log.Error("failed to list recipes", zap.Error(err))
		page.addError(fmt.Sprintf("Error loading recipes: %v", err))
	}
	page.Recipes = recipes

	choices, err := s.planner.ListChoices(r.Context())
	if err != nil {
		s.log.Error("failed to list choices", zap.Error(err))
		page.addError(fmt.Sprintf("Error loading chosen foods: %v", err))
	}
	page.Choices = choices

	s.render(w, http.StatusOK, "recipes", page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.health(r.Context())

	status := http.StatusOK
	if !h.Healthy() {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(h); err != nil {
		s.log.Error("failed to encode health", zap.Error(err))
	}
}
