package service

import (
	"context"
	"io"

	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// In-memory fakes backing the service tests. Each fake implements its
// repository interface over plain maps, including the duplicate-key
// behaviour the real unique indexes provide.

type stubCourseRepo struct {
	courses map[uint]models.Course
	nextID  uint
}

func newStubCourseRepo(courses ...models.Course) *stubCourseRepo {
	repo := &stubCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
	for _, course := range courses {
		repo.courses[course.ID] = course
		if course.ID >= repo.nextID {
			repo.nextID = course.ID + 1
		}
	}
	return repo
}

func (s *stubCourseRepo) List(ctx context.Context, filter repository.CourseFilter) ([]repository.CourseWithStats, int64, error) {
	rows := make([]repository.CourseWithStats, 0, len(s.courses))
	for _, course := range s.courses {
		rows = append(rows, repository.CourseWithStats{Course: course})
	}
	return rows, int64(len(rows)), nil
}

func (s *stubCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (s *stubCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = s.nextID
	s.nextID++
	s.courses[course.ID] = *course
	return nil
}

func (s *stubCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := s.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.courses[course.ID] = *course
	return nil
}

func (s *stubCourseRepo) Delete(ctx context.Context, id uint) error {
	delete(s.courses, id)
	return nil
}

type stubEnrollmentRepo struct {
	rows    map[uint]models.Enrollment
	courses *stubCourseRepo
	nextID  uint
}

func newStubEnrollmentRepo(courses *stubCourseRepo) *stubEnrollmentRepo {
	return &stubEnrollmentRepo{rows: make(map[uint]models.Enrollment), courses: courses, nextID: 1}
}

func (s *stubEnrollmentRepo) find(studentID, courseID uint) (models.Enrollment, bool) {
	for _, row := range s.rows {
		if row.StudentID == studentID && row.CourseID == courseID {
			return row, true
		}
	}
	return models.Enrollment{}, false
}

func (s *stubEnrollmentRepo) GetOrCreate(ctx context.Context, studentID, courseID uint) (models.Enrollment, bool, error) {
	if existing, ok := s.find(studentID, courseID); ok {
		return existing, false, nil
	}
	row := models.Enrollment{ID: s.nextID, StudentID: studentID, CourseID: courseID}
	s.nextID++
	s.rows[row.ID] = row
	return row, true, nil
}

func (s *stubEnrollmentRepo) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	row, ok := s.rows[id]
	if !ok {
		return models.Enrollment{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubEnrollmentRepo) Exists(ctx context.Context, studentID, courseID uint) (bool, error) {
	_, ok := s.find(studentID, courseID)
	return ok, nil
}

func (s *stubEnrollmentRepo) ListByStudent(ctx context.Context, courseID, studentID uint) ([]models.Enrollment, error) {
	var result []models.Enrollment
	for _, row := range s.rows {
		if row.CourseID == courseID && row.StudentID == studentID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (s *stubEnrollmentRepo) ListByInstructor(ctx context.Context, courseID, instructorID uint) ([]models.Enrollment, error) {
	course, ok := s.courses.courses[courseID]
	if !ok || course.InstructorID != instructorID {
		return nil, nil
	}
	var result []models.Enrollment
	for _, row := range s.rows {
		if row.CourseID == courseID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (s *stubEnrollmentRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	for _, row := range s.rows {
		if row.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (s *stubEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if _, ok := s.rows[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.rows[enrollment.ID] = *enrollment
	return nil
}

func (s *stubEnrollmentRepo) Delete(ctx context.Context, id uint) error {
	delete(s.rows, id)
	return nil
}

type stubQuizRepo struct {
	quizzes map[uint]models.Quiz
	lessons *stubLessonRepo
	nextID  uint
}

func newStubQuizRepo(quizzes ...models.Quiz) *stubQuizRepo {
	repo := &stubQuizRepo{quizzes: make(map[uint]models.Quiz), nextID: 1}
	for _, quiz := range quizzes {
		repo.quizzes[quiz.ID] = quiz
		if quiz.ID >= repo.nextID {
			repo.nextID = quiz.ID + 1
		}
	}
	return repo
}

func (s *stubQuizRepo) ListByLesson(ctx context.Context, lessonID uint) ([]models.Quiz, error) {
	var result []models.Quiz
	for _, quiz := range s.quizzes {
		if quiz.LessonID == lessonID {
			result = append(result, quiz)
		}
	}
	return result, nil
}

func (s *stubQuizRepo) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	// mirror the repository's Preload("Lesson")
	if quiz.Lesson.ID == 0 && s.lessons != nil {
		if lesson, err := s.lessons.GetByID(ctx, quiz.LessonID); err == nil {
			quiz.Lesson = lesson
		}
	}
	return quiz, nil
}

func (s *stubQuizRepo) GetWithQuestions(ctx context.Context, id uint) (models.Quiz, error) {
	return s.GetByID(ctx, id)
}

func (s *stubQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.ID = s.nextID
	s.nextID++
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *stubQuizRepo) Update(ctx context.Context, quiz *models.Quiz) error {
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *stubQuizRepo) Delete(ctx context.Context, id uint) error {
	delete(s.quizzes, id)
	return nil
}

type stubQuestionRepo struct {
	questions map[uint]models.Question
	nextID    uint
}

func newStubQuestionRepo(questions ...models.Question) *stubQuestionRepo {
	repo := &stubQuestionRepo{questions: make(map[uint]models.Question), nextID: 1}
	for _, question := range questions {
		repo.questions[question.ID] = question
		if question.ID >= repo.nextID {
			repo.nextID = question.ID + 1
		}
	}
	return repo
}

func (s *stubQuestionRepo) ListByQuiz(ctx context.Context, quizID uint) ([]models.Question, error) {
	var result []models.Question
	for _, question := range s.questions {
		if question.QuizID == quizID {
			result = append(result, question)
		}
	}
	return result, nil
}

func (s *stubQuestionRepo) GetByID(ctx context.Context, id uint) (models.Question, error) {
	question, ok := s.questions[id]
	if !ok {
		return models.Question{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (s *stubQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	question.ID = s.nextID
	s.nextID++
	s.questions[question.ID] = *question
	return nil
}

func (s *stubQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	if _, ok := s.questions[question.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.questions[question.ID] = *question
	return nil
}

func (s *stubQuestionRepo) Delete(ctx context.Context, id uint) error {
	delete(s.questions, id)
	return nil
}

type stubSubmissionRepo struct {
	rows   map[uint]models.Submission
	nextID uint
}

func newStubSubmissionRepo() *stubSubmissionRepo {
	return &stubSubmissionRepo{rows: make(map[uint]models.Submission), nextID: 1}
}

func (s *stubSubmissionRepo) ListByQuiz(ctx context.Context, quizID uint) ([]models.Submission, error) {
	var result []models.Submission
	for _, row := range s.rows {
		if row.QuizID == quizID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (s *stubSubmissionRepo) ListByQuizAndStudent(ctx context.Context, quizID, studentID uint) ([]models.Submission, error) {
	var result []models.Submission
	for _, row := range s.rows {
		if row.QuizID == quizID && row.StudentID == studentID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (s *stubSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	row, ok := s.rows[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubSubmissionRepo) Exists(ctx context.Context, studentID, quizID uint) (bool, error) {
	for _, row := range s.rows {
		if row.StudentID == studentID && row.QuizID == quizID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	for _, row := range s.rows {
		if row.StudentID == submission.StudentID && row.QuizID == submission.QuizID {
			return repository.ErrDuplicate
		}
	}
	submission.ID = s.nextID
	s.nextID++
	s.rows[submission.ID] = *submission
	return nil
}

type stubRatingRepo struct {
	rows   map[uint]models.Rating
	nextID uint
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{rows: make(map[uint]models.Rating), nextID: 1}
}

func (s *stubRatingRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Rating, error) {
	var result []models.Rating
	for _, row := range s.rows {
		if row.CourseID == courseID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (s *stubRatingRepo) GetByID(ctx context.Context, id uint) (models.Rating, error) {
	row, ok := s.rows[id]
	if !ok {
		return models.Rating{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubRatingRepo) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	for _, row := range s.rows {
		if row.UserID == userID && row.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRatingRepo) Average(ctx context.Context, courseID uint) (float64, error) {
	var sum float64
	var count int
	for _, row := range s.rows {
		if row.CourseID == courseID {
			sum += row.Rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func (s *stubRatingRepo) Create(ctx context.Context, rating *models.Rating) error {
	for _, row := range s.rows {
		if row.UserID == rating.UserID && row.CourseID == rating.CourseID {
			return repository.ErrDuplicate
		}
	}
	rating.ID = s.nextID
	s.nextID++
	s.rows[rating.ID] = *rating
	return nil
}

func (s *stubRatingRepo) Update(ctx context.Context, rating *models.Rating) error {
	if _, ok := s.rows[rating.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.rows[rating.ID] = *rating
	return nil
}

type stubLessonRepo struct {
	lessons map[uint]models.Lesson
	nextID  uint
}

func newStubLessonRepo(lessons ...models.Lesson) *stubLessonRepo {
	repo := &stubLessonRepo{lessons: make(map[uint]models.Lesson), nextID: 1}
	for _, lesson := range lessons {
		repo.lessons[lesson.ID] = lesson
		if lesson.ID >= repo.nextID {
			repo.nextID = lesson.ID + 1
		}
	}
	return repo
}

func (s *stubLessonRepo) ListByCourse(ctx context.Context, courseID uint, search string) ([]models.Lesson, error) {
	var result []models.Lesson
	for _, lesson := range s.lessons {
		if lesson.CourseID == courseID {
			result = append(result, lesson)
		}
	}
	return result, nil
}

func (s *stubLessonRepo) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return models.Lesson{}, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

func (s *stubLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	lesson.ID = s.nextID
	s.nextID++
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *stubLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	if _, ok := s.lessons[lesson.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *stubLessonRepo) Delete(ctx context.Context, id uint) error {
	delete(s.lessons, id)
	return nil
}

type stubLessonFileRepo struct {
	files  map[uint]models.LessonFile
	nextID uint
}

func newStubLessonFileRepo() *stubLessonFileRepo {
	return &stubLessonFileRepo{files: make(map[uint]models.LessonFile), nextID: 1}
}

func (s *stubLessonFileRepo) ListByLesson(ctx context.Context, lessonID uint) ([]models.LessonFile, error) {
	var result []models.LessonFile
	for _, file := range s.files {
		if file.LessonID == lessonID {
			result = append(result, file)
		}
	}
	return result, nil
}

func (s *stubLessonFileRepo) GetByID(ctx context.Context, id uint) (models.LessonFile, error) {
	file, ok := s.files[id]
	if !ok {
		return models.LessonFile{}, gorm.ErrRecordNotFound
	}
	return file, nil
}

func (s *stubLessonFileRepo) Create(ctx context.Context, file *models.LessonFile) error {
	file.ID = s.nextID
	s.nextID++
	s.files[file.ID] = *file
	return nil
}

func (s *stubLessonFileRepo) Delete(ctx context.Context, id uint) error {
	delete(s.files, id)
	return nil
}

type stubCategoryRepo struct {
	categories map[uint]models.Category
	nextID     uint
}

func newStubCategoryRepo(categories ...models.Category) *stubCategoryRepo {
	repo := &stubCategoryRepo{categories: make(map[uint]models.Category), nextID: 1}
	for _, category := range categories {
		repo.categories[category.ID] = category
		if category.ID >= repo.nextID {
			repo.nextID = category.ID + 1
		}
	}
	return repo
}

func (s *stubCategoryRepo) List(ctx context.Context, search string) ([]models.Category, error) {
	var result []models.Category
	for _, category := range s.categories {
		result = append(result, category)
	}
	return result, nil
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id uint) (models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return models.Category{}, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	for _, existing := range s.categories {
		if existing.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	category.ID = s.nextID
	s.nextID++
	s.categories[category.ID] = *category
	return nil
}

func (s *stubCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	if _, ok := s.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id uint) error {
	delete(s.categories, id)
	return nil
}

type stubLevelRepo struct {
	levels map[uint]models.Level
	nextID uint
}

func newStubLevelRepo(levels ...models.Level) *stubLevelRepo {
	repo := &stubLevelRepo{levels: make(map[uint]models.Level), nextID: 1}
	for _, level := range levels {
		repo.levels[level.ID] = level
		if level.ID >= repo.nextID {
			repo.nextID = level.ID + 1
		}
	}
	return repo
}

func (s *stubLevelRepo) List(ctx context.Context, search string) ([]models.Level, error) {
	var result []models.Level
	for _, level := range s.levels {
		result = append(result, level)
	}
	return result, nil
}

func (s *stubLevelRepo) GetByID(ctx context.Context, id uint) (models.Level, error) {
	level, ok := s.levels[id]
	if !ok {
		return models.Level{}, gorm.ErrRecordNotFound
	}
	return level, nil
}

func (s *stubLevelRepo) Create(ctx context.Context, level *models.Level) error {
	for _, existing := range s.levels {
		if existing.Name == level.Name {
			return repository.ErrDuplicate
		}
	}
	level.ID = s.nextID
	s.nextID++
	s.levels[level.ID] = *level
	return nil
}

func (s *stubLevelRepo) Update(ctx context.Context, level *models.Level) error {
	if _, ok := s.levels[level.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.levels[level.ID] = *level
	return nil
}

func (s *stubLevelRepo) Delete(ctx context.Context, id uint) error {
	delete(s.levels, id)
	return nil
}

type stubUserRepo struct {
	users map[uint]models.User
}

func newStubUserRepo(users ...models.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[uint]models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Delete(ctx context.Context, id uint) error {
	delete(s.users, id)
	return nil
}

// stubStats records invalidations so tests can assert cache hygiene
// without a real redis behind the aggregator.
type stubStats struct {
	invalidated []uint
}

func (s *stubStats) Stats(ctx context.Context, courseID uint) (dto.CourseStats, error) {
	return dto.CourseStats{}, nil
}

func (s *stubStats) Invalidate(ctx context.Context, courseID uint) {
	s.invalidated = append(s.invalidated, courseID)
}

type stubUploader struct {
	url      string
	err      error
	uploaded int
}

func (s *stubUploader) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploaded++
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return s.url, nil
}