package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/dashboard"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/meals"
	"github.com/2beens/fittrack/internal/profiles"
	"github.com/2beens/fittrack/internal/recommend"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/timeutil"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var fitnessLevels = []string{"beginner", "intermediate", "advanced"}

type feature struct {
	Name        string
	Description string
	Href        string
}

var features = []feature{
	{
		Name:        "Diet Tracking",
		Description: "Log your meals and track your nutritional intake with our easy-to-use diet tracker.",
		Href:        "/diet",
	},
	{
		Name:        "AI Workout Recommendations",
		Description: "Get personalized workout plans based on your equipment and fitness level.",
		Href:        "/exercise",
	},
	{
		Name:        "Progress Tracking",
		Description: "Monitor your progress with detailed statistics and visualizations.",
		Href:        "/dashboard",
	},
}

// formValues holds submitted inputs so a rejected form can be shown again as typed.
type formValues map[string]string

func valuesOf(values url.Values) formValues {
	fv := make(formValues, len(values))
	for k := range values {
		fv[k] = values.Get(k)
	}
	return fv
}

type signInPage struct {
	SignUp         bool
	RedirectedFrom string
}

type dietPage struct {
	Meals []meals.Meal
	Form  formValues
}

type exercisePage struct {
	Exercises      []exercises.Exercise
	Categories     []exercises.Category
	Types          map[exercises.Category][]string
	FitnessLevels  []string
	Form           formValues
	Recommend      recommend.Request
	Recommendation *recommend.Result
}

type profilePage struct {
	Profile        *profiles.Profile
	ActivityLevels []string
}

type Pages struct {
	renderer  *renderer
	checker   auth.Checker
	zone      *timeutil.Zone
	meals     *meals.Service
	exercises *exercises.Service
	profiles  *profiles.Service
	dashboard *dashboard.Service
	recommend *recommend.Service
	now       func() time.Time
}

func NewPages(
	checker auth.Checker,
	zone *timeutil.Zone,
	mealsService *meals.Service,
	exercisesService *exercises.Service,
	profilesService *profiles.Service,
	dashboardService *dashboard.Service,
	recommendService *recommend.Service,
) (*Pages, error) {
	r, err := newRenderer(zone)
	if err != nil {
		return nil, err
	}

	return &Pages{
		renderer:  r,
		checker:   checker,
		zone:      zone,
		meals:     mealsService,
		exercises: exercisesService,
		profiles:  profilesService,
		dashboard: dashboardService,
		recommend: recommendService,
		now:       time.Now,
	}, nil
}

func (p *Pages) WithClock(now func() time.Time) *Pages {
	p.now = now
	return p
}

// Protected passes the session user to fn. Anonymous visitors are sent to the sign in page.
func (p *Pages) Protected(fn auth.UserHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := p.checker.UserFromRequest(r)
		if err != nil {
			http.Redirect(w, r, "/auth/signin?redirectedFrom="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		fn(w, r, user)
	}
}

// optionalUser is the session user or nil, for pages open to everyone.
func (p *Pages) optionalUser(r *http.Request) *auth.User {
	user, err := p.checker.UserFromRequest(r)
	if err != nil {
		return nil
	}
	return user
}

func (p *Pages) HandleHome(w http.ResponseWriter, r *http.Request) {
	p.renderer.render(w, r, "home", http.StatusOK, pageData{
		User: p.optionalUser(r),
		Data: features,
	})
}

func (p *Pages) HandleAbout(w http.ResponseWriter, r *http.Request) {
	p.renderer.render(w, r, "about", http.StatusOK, pageData{
		Title: "About",
		User:  p.optionalUser(r),
	})
}

func (p *Pages) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p.renderer.render(w, r, "signin", http.StatusOK, pageData{
		Title: "Sign in",
		Error: q.Get("error"),
		Data: signInPage{
			SignUp:         q.Get("mode") == "signup",
			RedirectedFrom: q.Get("redirectedFrom"),
		},
	})
}

func (p *Pages) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	p.renderer.render(w, r, "verify_email", http.StatusOK, pageData{
		Title: "Check your email",
		User:  p.optionalUser(r),
	})
}

func (p *Pages) HandleDashboard(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.dashboard")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	p.renderer.render(w, r, "dashboard", http.StatusOK, pageData{
		Title: "Dashboard",
		User:  user,
		Data:  p.dashboard.Stats(ctx, user),
	})
}

func (p *Pages) HandleDiet(w http.ResponseWriter, r *http.Request, user *auth.User) {
	p.renderDiet(w, r, user, http.StatusOK, "", nil)
}

func (p *Pages) renderDiet(w http.ResponseWriter, r *http.Request, user *auth.User, status int, errMsg string, form formValues) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.diet")
	defer span.End()

	mealList, err := p.meals.List(ctx, user.ID)
	if err != nil {
		log.Errorf("diet page, list meals for %s: %s", user.ID, err)
		if errMsg == "" {
			errMsg = "Failed to fetch meals"
		}
	}
	if form == nil {
		form = formValues{"time": p.zone.CurrentLocalInput(p.now())}
	}

	p.renderer.render(w, r, "diet", status, pageData{
		Title: "Diet Tracker",
		User:  user,
		Error: errMsg,
		Data: dietPage{
			Meals: mealList,
			Form:  form,
		},
	})
}

func (p *Pages) HandleDietAdd(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.diet.add")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		p.renderDiet(w, r, user, http.StatusBadRequest, "Invalid meal data", nil)
		return
	}
	submitted := valuesOf(r.PostForm)

	form, err := meals.FormFromValues(r.PostForm)
	if err == nil {
		_, err = p.meals.Add(ctx, user.ID, form)
	}
	if err != nil {
		if fe, ok := pkg.AsFieldError(err); ok {
			p.renderDiet(w, r, user, http.StatusBadRequest, fe.Message, submitted)
			return
		}
		log.Errorf("diet page, add meal for %s: %s", user.ID, err)
		p.renderDiet(w, r, user, http.StatusInternalServerError, "Failed to add meal", submitted)
		return
	}

	http.Redirect(w, r, "/diet", http.StatusSeeOther)
}

func (p *Pages) HandleDietDelete(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.diet.delete")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		p.renderDiet(w, r, user, http.StatusBadRequest, "Meal ID is required", nil)
		return
	}

	if err := p.meals.Delete(ctx, user.ID, r.PostForm.Get("id")); err != nil {
		msg, status := meals.DeleteErrorMessage(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("diet page, delete meal for %s: %s", user.ID, err)
		}
		p.renderDiet(w, r, user, status, msg, nil)
		return
	}

	http.Redirect(w, r, "/diet", http.StatusSeeOther)
}

func (p *Pages) HandleExercise(w http.ResponseWriter, r *http.Request, user *auth.User) {
	p.renderExercise(w, r, user, http.StatusOK, "", exercisePage{})
}

func (p *Pages) renderExercise(w http.ResponseWriter, r *http.Request, user *auth.User, status int, errMsg string, page exercisePage) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.exercise")
	defer span.End()

	exerciseList, err := p.exercises.List(ctx, user.ID)
	if err != nil {
		log.Errorf("exercise page, list exercises for %s: %s", user.ID, err)
		if errMsg == "" {
			errMsg = "Failed to fetch exercises"
		}
	}

	page.Exercises = exerciseList
	page.Categories = exercises.Categories
	page.Types = exercises.TypesByCategory
	page.FitnessLevels = fitnessLevels
	if page.Form == nil {
		page.Form = formValues{
			"exercise_category": string(exercises.CategoryCardio),
			"date":              p.zone.CurrentLocalInput(p.now()),
		}
	}
	if page.Recommend.FitnessLevel == "" {
		page.Recommend.FitnessLevel = recommend.DefaultFitnessLevel
	}

	p.renderer.render(w, r, "exercise", status, pageData{
		Title: "Exercise Tracker",
		User:  user,
		Error: errMsg,
		Data:  page,
	})
}

func (p *Pages) HandleExerciseAdd(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.exercise.add")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		p.renderExercise(w, r, user, http.StatusBadRequest, "Invalid exercise data", exercisePage{})
		return
	}
	page := exercisePage{Form: valuesOf(r.PostForm)}

	form, err := exercises.FormFromValues(r.PostForm)
	if err == nil {
		_, err = p.exercises.Add(ctx, user.ID, form)
	}
	if err != nil {
		if fe, ok := pkg.AsFieldError(err); ok {
			p.renderExercise(w, r, user, http.StatusBadRequest, fe.Message, page)
			return
		}
		log.Errorf("exercise page, add exercise for %s: %s", user.ID, err)
		p.renderExercise(w, r, user, http.StatusInternalServerError, "Failed to add exercise", page)
		return
	}

	http.Redirect(w, r, "/exercise", http.StatusSeeOther)
}

func (p *Pages) HandleExerciseDelete(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.exercise.delete")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		p.renderExercise(w, r, user, http.StatusBadRequest, "Exercise ID is required", exercisePage{})
		return
	}

	if err := p.exercises.Delete(ctx, user.ID, r.PostForm.Get("id")); err != nil {
		msg, status := exercises.DeleteErrorMessage(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("exercise page, delete exercise for %s: %s", user.ID, err)
		}
		p.renderExercise(w, r, user, status, msg, exercisePage{})
		return
	}

	http.Redirect(w, r, "/exercise", http.StatusSeeOther)
}

// HandleExerciseRecommend shows the generated workout on the exercise page itself.
func (p *Pages) HandleExerciseRecommend(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.exercise.recommend")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := r.ParseForm(); err != nil {
		msg, status := recommend.ErrorMessage(recommend.ErrEquipmentRequired)
		p.renderExercise(w, r, user, status, msg, exercisePage{})
		return
	}

	req := recommend.Request{
		Equipment:    r.PostForm.Get("equipment"),
		FitnessLevel: r.PostForm.Get("fitnessLevel"),
		Goals:        r.PostForm.Get("goals"),
	}
	page := exercisePage{Recommend: req}

	result, err := p.recommend.Recommend(ctx, user.ID, req)
	if err != nil {
		msg, status := recommend.ErrorMessage(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("exercise page, recommend for %s: %s", user.ID, err)
		}
		p.renderExercise(w, r, user, status, msg, page)
		return
	}

	page.Recommendation = result
	p.renderExercise(w, r, user, http.StatusOK, "", page)
}

func (p *Pages) HandleProfile(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.profile")
	defer span.End()

	profile, err := p.profiles.Get(ctx, user)
	if err != nil {
		log.Errorf("profile page, get profile for %s: %s", user.ID, err)
		def := profiles.Default(user.ID, user.Email)
		p.renderProfile(w, r, user, http.StatusInternalServerError, "Failed to load profile data", &def)
		return
	}

	p.renderProfile(w, r, user, http.StatusOK, "", profile)
}

func (p *Pages) renderProfile(w http.ResponseWriter, r *http.Request, user *auth.User, status int, errMsg string, profile *profiles.Profile) {
	p.renderer.render(w, r, "profile", status, pageData{
		Title: "Profile",
		User:  user,
		Error: errMsg,
		Data: profilePage{
			Profile:        profile,
			ActivityLevels: profiles.ActivityLevels,
		},
	})
}

func (p *Pages) HandleProfileUpdate(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "page.profile.update")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		def := profiles.Default(user.ID, user.Email)
		p.renderProfile(w, r, user, http.StatusBadRequest, "Invalid profile data", &def)
		return
	}

	form, err := profiles.FormFromValues(r.PostForm)
	if err == nil {
		_, err = p.profiles.Save(ctx, user, form)
	}
	if err != nil {
		// show what was typed, the stored profile is unchanged
		shown := submittedProfile(user, r.PostForm)
		if fe, ok := pkg.AsFieldError(err); ok {
			p.renderProfile(w, r, user, http.StatusBadRequest, fe.Message, shown)
			return
		}
		log.Errorf("profile page, save profile for %s: %s", user.ID, err)
		p.renderProfile(w, r, user, http.StatusInternalServerError, "Failed to update profile", shown)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func submittedProfile(user *auth.User, values url.Values) *profiles.Profile {
	p := profiles.Default(user.ID, user.Email)
	if name := values.Get("full_name"); name != "" {
		p.FullName = &name
	}
	if avatar := values.Get("avatar_url"); avatar != "" {
		p.AvatarURL = &avatar
	}
	if level := values.Get("activity_level"); profiles.IsActivityLevel(level) {
		p.ActivityLevel = &level
	}
	return &p
}
