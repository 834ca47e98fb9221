package service

import (
	"context"
	"errors"
	"sort"
	"stackit_backend/internal/model"
	"stackit_backend/internal/repository"
	"strings"
	"sync"
	"time"
)

// countingTagCache 记录热门标签缓存被清空的次数
type countingTagCache struct {
	invalidations int
}

func (c *countingTagCache) Invalidate(ctx context.Context) {
	c.invalidations++
}

type fixedClassifier struct {
	status model.ModerationStatus
	calls  []string
}

func (c *fixedClassifier) Classify(ctx context.Context, text string) model.ModerationStatus {
	c.calls = append(c.calls, text)
	if c.status == "" {
		return model.ModerationGreen
	}
	return c.status
}

type memUsers struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{users: make(map[uint]*model.User)}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *memUsers) Create(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return model.Invalidf("username or email already exists")
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) FindByID(id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, model.NotFoundf("user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.NotFoundf("user not found")
}

func (m *memUsers) FindByUsernames(names []string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, n := range names {
		for _, u := range m.users {
			if u.Username == n {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (m *memUsers) UpdateProfile(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) UpdateLastSeen(userID uint) error { return nil }

func (m *memUsers) SetRole(userID uint, role model.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return model.NotFoundf("user not found")
	}
	u.Role = role
	return nil
}

func (m *memUsers) List(page, limit int, search string, banned *bool) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		if banned != nil && u.IsBanned != *banned {
			continue
		}
		if search != "" && !strings.Contains(u.Username, search) {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) ActiveUserIDs() ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for id, u := range m.users {
		if !u.IsBanned {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memUsers) DeleteCascade(userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return model.NotFoundf("user not found")
	}
	delete(m.users, userID)
	return nil
}

type memTags struct {
	tags []model.Tag
}

func (m *memTags) List(search, category string, includeInactive bool) ([]model.Tag, error) {
	var out []model.Tag
	for _, t := range m.tags {
		if !includeInactive && !t.IsActive {
			continue
		}
		if search != "" && !strings.Contains(t.Name, search) {
			continue
		}
		if category != "" && string(t.Category) != category {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTags) Popular(limit int) ([]model.Tag, error) {
	out, _ := m.List("", "", false)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memTags) FindByID(id uint) (*model.Tag, error) {
	for i := range m.tags {
		if m.tags[i].ID == id {
			t := m.tags[i]
			return &t, nil
		}
	}
	return nil, model.NotFoundf("tag not found")
}

func (m *memTags) FindActiveByNames(names []string) ([]model.Tag, error) {
	var out []model.Tag
	for _, n := range names {
		for _, t := range m.tags {
			if t.Name == n && t.IsActive {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (m *memTags) Create(tag *model.Tag) error {
	for _, t := range m.tags {
		if t.Name == tag.Name {
			return model.Invalidf("tag already exists")
		}
	}
	tag.ID = uint(len(m.tags) + 1)
	m.tags = append(m.tags, *tag)
	return nil
}

func (m *memTags) Update(tag *model.Tag) error {
	for i := range m.tags {
		if m.tags[i].ID == tag.ID {
			m.tags[i] = *tag
			return nil
		}
	}
	return model.NotFoundf("tag not found")
}

// memContent 问题、回答、评论的内存实现，采纳逻辑与数据库实现一样复用 model 中的状态机
type memContent struct {
	mu        sync.Mutex
	questions map[string]*model.Question
	answers   map[string]*model.Answer
	comments  map[string]*model.Comment
	views     map[string]int
}

func newMemContent() *memContent {
	return &memContent{
		questions: make(map[string]*model.Question),
		answers:   make(map[string]*model.Answer),
		comments:  make(map[string]*model.Comment),
		views:     make(map[string]int),
	}
}

func (m *memContent) addQuestion(id string, authorID uint) *model.Question {
	q := &model.Question{
		ContentRecord: model.ContentRecord{ID: id, AuthorID: authorID, ModerationStatus: model.ModerationGreen},
		Title:         "How do I test this code?",
	}
	m.questions[id] = q
	return q
}

func (m *memContent) addAnswer(id, questionID string, authorID uint) *model.Answer {
	a := &model.Answer{
		ContentRecord: model.ContentRecord{ID: id, AuthorID: authorID, ModerationStatus: model.ModerationGreen},
		QuestionID:    questionID,
	}
	m.answers[id] = a
	return a
}

type memQuestions struct{ *memContent }

func (m memQuestions) Create(q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == "" {
		q.ID = model.GenerateUUID()
	}
	cp := *q
	m.questions[q.ID] = &cp
	return nil
}

func (m memQuestions) FindByID(id string) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, model.NotFoundf("question not found")
	}
	cp := *q
	return &cp, nil
}

func (m memQuestions) IncrementViews(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.questions[id]; ok && !q.IsDeleted {
		q.ViewCount++
	}
	return nil
}

func (m memQuestions) List(q repository.QuestionQuery) ([]model.Question, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Question
	for _, question := range m.questions {
		if question.IsDeleted {
			continue
		}
		if q.AuthorID != 0 && question.AuthorID != q.AuthorID {
			continue
		}
		if q.Search != "" && !strings.Contains(question.Title+question.Content, q.Search) {
			continue
		}
		out = append(out, *question)
	}
	return out, int64(len(out)), nil
}

func (m memQuestions) Update(q *model.Question, replaceTags bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.questions[q.ID]
	if !ok || stored.IsDeleted {
		return model.NotFoundf("question not found")
	}
	stored.Title = q.Title
	stored.Content = q.Content
	stored.ModerationStatus = q.ModerationStatus
	stored.IsModerated = q.IsModerated
	if replaceTags {
		stored.Tags = q.Tags
	}
	return nil
}

func (m memQuestions) SoftDelete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok || q.IsDeleted {
		return model.NotFoundf("question not found")
	}
	q.IsDeleted = true
	return nil
}

type memAnswers struct{ *memContent }

func (m memAnswers) Create(a *model.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[a.QuestionID]
	if !ok || q.IsDeleted {
		return model.NotFoundf("question not found")
	}
	if a.ID == "" {
		a.ID = model.GenerateUUID()
	}
	cp := *a
	m.answers[a.ID] = &cp
	return nil
}

func (m memAnswers) FindByID(id string) (*model.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.answers[id]
	if !ok {
		return nil, model.NotFoundf("answer not found")
	}
	cp := *a
	return &cp, nil
}

func (m memAnswers) ListByQuestion(questionID string, page, limit int) ([]model.Answer, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Answer
	for _, a := range m.answers {
		if a.QuestionID == questionID && !a.IsDeleted {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (m memAnswers) ListByAuthor(authorID uint, page, limit int) ([]model.Answer, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Answer
	for _, a := range m.answers {
		if a.AuthorID == authorID && !a.IsDeleted {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (m memAnswers) Update(a *model.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.answers[a.ID]
	if !ok || stored.IsDeleted {
		return model.NotFoundf("answer not found")
	}
	stored.Content = a.Content
	stored.ModerationStatus = a.ModerationStatus
	stored.IsModerated = a.IsModerated
	return nil
}

func (m memAnswers) SoftDelete(id string) (*model.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.answers[id]
	if !ok || a.IsDeleted {
		return nil, model.NotFoundf("answer not found")
	}
	a.IsDeleted = true
	if model.DetachAcceptance(m.questions[a.QuestionID], a.ID) {
		a.IsAccepted = false
		a.AcceptedAt = nil
	}
	cp := *a
	return &cp, nil
}

func (m memAnswers) Accept(questionID, answerID string, actorID uint, now time.Time) (*model.Question, *model.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[questionID]
	if !ok {
		return nil, nil, model.NotFoundf("question not found")
	}
	a, ok := m.answers[answerID]
	if !ok {
		return nil, nil, model.NotFoundf("answer not found")
	}

	// 在副本上执行，失败时不污染存储
	qc, ac := *q, *a
	var prev *model.Answer
	if q.AcceptedAnswerID != nil && *q.AcceptedAnswerID != a.ID {
		if p, ok := m.answers[*q.AcceptedAnswerID]; ok {
			pc := *p
			prev = &pc
		}
	}
	if err := model.AcceptAnswer(&qc, &ac, prev, actorID, now); err != nil {
		return nil, nil, err
	}
	*q, *a = qc, ac
	if prev != nil {
		*m.answers[prev.ID] = *prev
	}
	return &qc, &ac, nil
}

func (m memAnswers) Unaccept(questionID, answerID string, actorID uint) (*model.Question, *model.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[questionID]
	if !ok {
		return nil, nil, model.NotFoundf("question not found")
	}
	a, ok := m.answers[answerID]
	if !ok {
		return nil, nil, model.NotFoundf("answer not found")
	}
	qc, ac := *q, *a
	if err := model.UnacceptAnswer(&qc, &ac, actorID); err != nil {
		return nil, nil, err
	}
	*q, *a = qc, ac
	return &qc, &ac, nil
}

type memComments struct{ *memContent }

func (m memComments) Create(c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = model.GenerateUUID()
	}
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m memComments) FindByID(id string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, model.NotFoundf("comment not found")
	}
	cp := *c
	return &cp, nil
}

func (m memComments) ListByAnswer(answerID string, page, limit int) ([]model.Comment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Comment
	for _, c := range m.comments {
		if c.AnswerID == answerID && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (m memComments) Update(c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.comments[c.ID]
	if !ok || stored.IsDeleted {
		return model.NotFoundf("comment not found")
	}
	stored.Content = c.Content
	stored.ModerationStatus = c.ModerationStatus
	return nil
}

func (m memComments) SoftDelete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok || c.IsDeleted {
		return model.NotFoundf("comment not found")
	}
	c.IsDeleted = true
	return nil
}

// memVotes 每个目标一本账，票数始终由账本推导
type memVotes struct {
	mu      sync.Mutex
	content *memContent
	ledgers map[string]*model.VoteLedger
}

func newMemVotes(content *memContent) *memVotes {
	return &memVotes{content: content, ledgers: make(map[string]*model.VoteLedger)}
}

func (m *memVotes) live(target model.VoteTarget, id string) bool {
	m.content.mu.Lock()
	defer m.content.mu.Unlock()
	switch target {
	case model.VoteOnQuestion:
		q, ok := m.content.questions[id]
		return ok && !q.IsDeleted
	case model.VoteOnAnswer:
		a, ok := m.content.answers[id]
		return ok && !a.IsDeleted
	}
	return false
}

func (m *memVotes) Cast(target model.VoteTarget, targetID string, userID uint, dir model.VoteDirection) (int, error) {
	if !m.live(target, targetID) {
		return 0, model.NotFoundf("%s not found", target)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(target) + ":" + targetID
	l, ok := m.ledgers[key]
	if !ok {
		l = &model.VoteLedger{}
		m.ledgers[key] = l
	}
	l.Cast(userID, dir)
	return l.Count(), nil
}

func (m *memVotes) VoteOf(target model.VoteTarget, targetID string, userID uint) (model.VoteDirection, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.ledgers[string(target)+":"+targetID]
	if !ok {
		return "", false, nil
	}
	dir, ok := l.VoteOf(userID)
	return dir, ok, nil
}

type memNotifications struct {
	mu     sync.Mutex
	items  []model.Notification
	failOn uint
}

var errStoreDown = errors.New("store down")

func (m *memNotifications) Create(n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != 0 && n.RecipientID == m.failOn {
		return errStoreDown
	}
	n.ID = uint(len(m.items) + 1)
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) forRecipient(id uint) []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Notification
	for _, n := range m.items {
		if n.RecipientID == id && !n.IsDeleted {
			out = append(out, n)
		}
	}
	return out
}

func (m *memNotifications) List(recipientID uint, page, limit int, unreadOnly bool) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range m.forRecipient(recipientID) {
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (m *memNotifications) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range m.forRecipient(recipientID) {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) MarkRead(id, recipientID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].RecipientID == recipientID && !m.items[i].IsDeleted {
			m.items[i].IsRead = true
			return nil
		}
	}
	return model.NotFoundf("notification not found")
}

func (m *memNotifications) MarkAllRead(recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.items {
		if m.items[i].RecipientID == recipientID && !m.items[i].IsRead {
			m.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) Delete(id, recipientID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].RecipientID == recipientID && !m.items[i].IsDeleted {
			m.items[i].IsDeleted = true
			return nil
		}
	}
	return model.NotFoundf("notification not found")
}

type memModeration struct {
	content *memContent
	users   *memUsers
	reports []model.Report
}

func (m *memModeration) Apply(ct model.ContentType, contentID string, action model.ModerationAction, audit repository.ModerationAudit) (*model.Report, error) {
	m.content.mu.Lock()
	var record *model.ContentRecord
	switch ct {
	case model.ContentQuestion:
		if q, ok := m.content.questions[contentID]; ok {
			record = &q.ContentRecord
		}
	case model.ContentAnswer:
		if a, ok := m.content.answers[contentID]; ok {
			record = &a.ContentRecord
		}
	case model.ContentComment:
		if c, ok := m.content.comments[contentID]; ok {
			record = &c.ContentRecord
		}
	}
	if record == nil {
		m.content.mu.Unlock()
		return nil, model.NotFoundf("%s not found", ct)
	}
	if action == model.ActionBanUser && record.Live() {
		m.users.mu.Lock()
		author, ok := m.users.users[record.AuthorID]
		var err error
		if !ok {
			err = model.NotFoundf("user not found")
		} else {
			err = model.CheckBanTarget(audit.ModeratorID, author)
		}
		m.users.mu.Unlock()
		if err != nil {
			m.content.mu.Unlock()
			return nil, err
		}
	}
	ban, err := model.ApplyModeration(record, action)
	authorID := record.AuthorID
	m.content.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if ban {
		m.users.mu.Lock()
		if u, ok := m.users.users[authorID]; ok {
			u.IsBanned = true
		}
		m.users.mu.Unlock()
	}

	report := model.Report{
		ID:          uint(len(m.reports) + 1),
		ModeratorID: audit.ModeratorID,
		ContentType: ct,
		ContentID:   contentID,
		TargetUser:  authorID,
		Action:      action,
		Reason:      audit.Reason,
		Notes:       audit.Notes,
	}
	m.reports = append(m.reports, report)
	return &report, nil
}

func (m *memModeration) SetBan(userID uint, banned bool, audit repository.ModerationAudit) (*model.Report, error) {
	m.users.mu.Lock()
	u, ok := m.users.users[userID]
	if ok {
		u.IsBanned = banned
	}
	m.users.mu.Unlock()
	if !ok {
		return nil, model.NotFoundf("user not found")
	}

	action := model.ActionBanUser
	if !banned {
		action = model.ActionUnban
	}
	report := model.Report{
		ID:          uint(len(m.reports) + 1),
		ModeratorID: audit.ModeratorID,
		ContentType: model.ContentUser,
		TargetUser:  userID,
		Action:      action,
		Reason:      audit.Reason,
	}
	m.reports = append(m.reports, report)
	return &report, nil
}

func (m *memModeration) Flagged(limit int) (*repository.FlaggedContent, error) {
	return &repository.FlaggedContent{}, nil
}

func (m *memModeration) Reports(page, limit int, contentType string) ([]model.Report, int64, error) {
	return m.reports, int64(len(m.reports)), nil
}

func (m *memModeration) BannedUsers(limit int) ([]model.User, error) {
	banned := true
	users, _, err := m.users.List(1, limit, "", &banned)
	return users, err
}

func (m *memModeration) Stats() (*repository.ModerationStats, error) {
	return &repository.ModerationStats{Reports: int64(len(m.reports))}, nil
}

// recordingSink 记录投递的通知，可模拟失败
type recordingSink struct {
	mu   sync.Mutex
	name string
	err  error
	got  []model.Notification
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Send(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, *n)
	return nil
}

func (s *recordingSink) sent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.got...)
}

var (
	alice = &model.User{BaseModel: model.BaseModel{ID: 1}, Username: "alice", Email: "alice@example.com", Role: model.Member}
	bob   = &model.User{BaseModel: model.BaseModel{ID: 2}, Username: "bob", Email: "bob@example.com", Role: model.Member}
	carol = &model.User{BaseModel: model.BaseModel{ID: 3}, Username: "carol", Email: "carol@example.com", Role: model.Moderator}
	root  = &model.User{BaseModel: model.BaseModel{ID: 4}, Username: "root", Email: "root@example.com", Role: model.Admin}
)

func actorOf(u *model.User) Actor {
	return ActorFromUser(u)
}

// testForum 组装一套使用内存存储的服务
type testForum struct {
	users      *memUsers
	content    *memContent
	votes      *memVotes
	inbox      *memNotifications
	sink       *recordingSink
	classifier *fixedClassifier
	tagCache   *countingTagCache
	moderation *memModeration

	notifier  *NotificationService
	questions *QuestionService
	answers   *AnswerService
	comments  *CommentService
	voting    *VoteService
	moderator *ModerationService
}

func newTestForum() *testForum {
	f := &testForum{
		users: newMemUsers(
			func() *model.User { u := *alice; return &u }(),
			func() *model.User { u := *bob; return &u }(),
			func() *model.User { u := *carol; return &u }(),
			func() *model.User { u := *root; return &u }(),
		),
		content:    newMemContent(),
		inbox:      &memNotifications{},
		sink:       &recordingSink{name: "test"},
		classifier: &fixedClassifier{},
		tagCache:   &countingTagCache{},
	}
	f.votes = newMemVotes(f.content)
	f.moderation = &memModeration{content: f.content, users: f.users}

	tags := &memTags{tags: []model.Tag{
		{BaseModel: model.BaseModel{ID: 1}, Name: "go", Category: model.CategoryProgramming, IsActive: true},
		{BaseModel: model.BaseModel{ID: 2}, Name: "sql", Category: model.CategoryOther, IsActive: true},
		{BaseModel: model.BaseModel{ID: 3}, Name: "cobol", Category: model.CategoryOther, IsActive: false},
	}}

	f.notifier = NewNotificationService(f.inbox, f.users, 4, &StoreSink{Store: f.inbox}, f.sink)
	f.questions = NewQuestionService(memQuestions{f.content}, memAnswers{f.content}, tags, f.classifier, f.tagCache)
	f.answers = NewAnswerService(memAnswers{f.content}, memQuestions{f.content}, f.classifier, f.notifier)
	f.comments = NewCommentService(memComments{f.content}, memAnswers{f.content}, memQuestions{f.content}, f.classifier, f.notifier)
	f.voting = NewVoteService(f.votes)
	f.moderator = NewModerationService(f.moderation, f.users)
	return f
}
