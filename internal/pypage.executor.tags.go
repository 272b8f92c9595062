package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// executeFor runs the tag body once per tuple yielded by the iteration
// expression. Targets are visible only inside the loop: colliding bindings
// are saved before the first iteration and reinstated afterwards.
func (e *Executor) executeFor(ctx context.Context, tag *ForTag, env *Environment, depth int) (string, error) {
	saved := env.shadow(tag.Targets)
	defer env.unshadow(tag.Targets, saved)

	iter, err := e.evaluator.Iterate(ctx, tag.Targets, tag.Source(), env)
	if err != nil {
		return "", err
	}
	defer iter.Close()

	var sb strings.Builder
	iterations := 0

	for iter.Next() {
		env.Update(bindTargets(tag.Targets, iter.Values()))

		output, err := e.executeNodes(ctx, tag.Children, env, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(output)
		iterations++
	}
	if err := iter.Err(); err != nil {
		return "", err
	}

	e.logger.Debug(LogMsgForLoopEnd,
		zap.Strings(LogFieldTargets, tag.Targets),
		zap.Int(LogFieldIterations, iterations))
	return sb.String(), nil
}

// bindTargets zips values onto targets; surplus on either side is ignored
func bindTargets(targets []string, values []any) map[string]any {
	n := len(targets)
	if len(values) < n {
		n = len(values)
	}
	bound := make(map[string]any, n)
	for i := 0; i < n; i++ {
		bound[targets[i]] = values[i]
	}
	return bound
}

// executeWhile repeats the tag body while its condition is truthy. Loops
// not marked slow stop once they have run longer than the loop time limit;
// the output produced so far is kept and a diagnostic is raised.
func (e *Executor) executeWhile(ctx context.Context, tag *WhileTag, env *Environment, depth int) (string, error) {
	var sb strings.Builder

	if tag.DoFirst {
		output, err := e.executeNodes(ctx, tag.Children, env, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(output)
	}

	start := time.Now()
	iterations := 0

	for {
		cond, err := e.evaluator.Evaluate(ctx, tag.Condition, env)
		if err != nil {
			return "", err
		}
		if !cond.Truth() {
			break
		}

		output, err := e.executeNodes(ctx, tag.Children, env, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(output)
		iterations++

		if elapsed := time.Since(start); !tag.Slow && e.config.LoopTimeLimit > 0 && elapsed > e.config.LoopTimeLimit {
			e.terminateLoop(tag, elapsed)
			break
		}
	}

	e.logger.Debug(LogMsgWhileLoopEnd,
		zap.String(LogFieldExpr, tag.Condition),
		zap.Int(LogFieldIterations, iterations))
	return sb.String(), nil
}

func (e *Executor) terminateLoop(tag *WhileTag, elapsed time.Duration) {
	msg := fmt.Sprintf(DiagFmtLoopTerminated, tag.Condition)
	e.logger.Warn(LogMsgLoopTerminated,
		zap.String(LogFieldExpr, tag.Condition),
		zap.Duration(LogFieldElapsed, elapsed),
		zap.Int(LogFieldLine, tag.Pos().Line),
		zap.Int(LogFieldColumn, tag.Pos().Column))
	e.emit(Diagnostic{
		Kind:     DiagnosticLoopTerminated,
		Message:  msg,
		Position: tag.Pos(),
		Elapsed:  elapsed,
	})
}

// executeComment never runs its children
func (e *Executor) executeComment(tag *CommentTag) (string, error) {
	e.logger.Debug(LogMsgCommentSkipped, zap.Int(LogFieldNodes, len(tag.Children)))
	return "", nil
}
