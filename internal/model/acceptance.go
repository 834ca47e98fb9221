package model

import "time"

// AcceptAnswer 将 answer 标记为 question 的采纳答案
// prev 为当前已采纳的答案（可为 nil 或与 answer 相同），会先被取消采纳
// 调用方必须持有该问题的行锁，并在同一事务内持久化三条记录
func AcceptAnswer(q *Question, a *Answer, prev *Answer, actorID uint, now time.Time) error {
	if !q.Live() {
		return NotFoundf("question not found")
	}
	if !a.Live() || a.QuestionID != q.ID {
		return NotFoundf("answer not found")
	}
	if q.AuthorID != actorID {
		return Forbiddenf("only the question author can accept answers")
	}

	if prev != nil && prev.ID != a.ID {
		prev.IsAccepted = false
		prev.AcceptedAt = nil
	}

	a.IsAccepted = true
	a.AcceptedAt = &now

	id := a.ID
	q.AcceptedAnswerID = &id
	q.IsAnswered = true
	q.AnsweredAt = &now
	return nil
}

// UnacceptAnswer 取消采纳；如果 answer 并非当前采纳答案，问题状态保持不变
func UnacceptAnswer(q *Question, a *Answer, actorID uint) error {
	if !q.Live() {
		return NotFoundf("question not found")
	}
	if !a.Live() || a.QuestionID != q.ID {
		return NotFoundf("answer not found")
	}
	if q.AuthorID != actorID {
		return Forbiddenf("only the question author can unaccept answers")
	}

	a.IsAccepted = false
	a.AcceptedAt = nil

	if q.AcceptedAnswerID != nil && *q.AcceptedAnswerID == a.ID {
		q.AcceptedAnswerID = nil
		q.IsAnswered = false
		q.AnsweredAt = nil
	}
	return nil
}

// DetachAcceptance 答案被删除时清理问题上的采纳状态，返回问题是否被修改
func DetachAcceptance(q *Question, answerID string) bool {
	if q == nil || q.AcceptedAnswerID == nil || *q.AcceptedAnswerID != answerID {
		return false
	}
	q.AcceptedAnswerID = nil
	q.IsAnswered = false
	q.AnsweredAt = nil
	return true
}
