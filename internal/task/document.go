// Package task はノート本文のTipTap JSONドキュメントからの
// タスク抽出と操作を提供する。
package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// タスクIDの区切り文字。"{noteID}__{listIndex}__{itemIndex}"形式。
const taskIDSeparator = "__"

const (
	nodeTypeDoc       = "doc"
	nodeTypeText      = "text"
	nodeTypeHeading   = "heading"
	nodeTypeTaskList  = "taskList"
	nodeTypeTaskItem  = "taskItem"
	nodeTypeParagraph = "paragraph"
)

// Node はTipTapドキュメントの1ノードを表す。
type Node struct {
	Type    string            `json:"type"`
	Attrs   map[string]any    `json:"attrs,omitempty"`
	Content []Node            `json:"content,omitempty"`
	Text    string            `json:"text,omitempty"`
	Marks   []json.RawMessage `json:"marks,omitempty"`
}

// Document はTipTapドキュメントのルートを表す。
type Document struct {
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Task はドキュメントから抽出されたタスク項目。
// TaskListIndexはドキュメント直下でのtaskListノードの位置、
// TaskItemIndexはそのtaskList内でのtaskItemの位置。
type Task struct {
	ID            string
	NoteID        string
	NoteTitle     string
	NotebookName  string
	Text          string
	Checked       bool
	TaskListIndex int
	TaskItemIndex int
}

// Heading はドキュメントから抽出された見出し。
type Heading struct {
	ID        string
	NoteID    string
	NoteTitle string
	Text      string
	Level     int
	NodeIndex int
}

// Item はタスクまたは見出しのいずれか。ドキュメント順の混在リストに使う。
type Item struct {
	Task    *Task
	Heading *Heading
}

// parseDocument は本文をTipTapドキュメントとしてパースする。
// 空文字列、JSONでない本文（HTML）、doc以外のルートはfalseを返す。
func parseDocument(content string) (*Document, bool) {
	if content == "" {
		return nil, false
	}
	var doc Document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, false
	}
	if doc.Type != nodeTypeDoc || doc.Content == nil {
		return nil, false
	}
	return &doc, true
}

// nodeText はノード配下のテキストを連結して返す。
func nodeText(node Node) string {
	if node.Type == nodeTypeText {
		return node.Text
	}
	var b strings.Builder
	for _, child := range node.Content {
		b.WriteString(nodeText(child))
	}
	return b.String()
}

// TaskID は"{noteID}__{listIndex}__{itemIndex}"形式のタスクIDを生成する。
func TaskID(noteID string, listIndex, itemIndex int) string {
	return fmt.Sprintf("%s%s%d%s%d", noteID, taskIDSeparator, listIndex, taskIDSeparator, itemIndex)
}

// ParseTaskID はタスクIDをnoteID、listIndex、itemIndexに分解する。
// 末尾2要素をインデックスとして扱い、残りをnoteIDとして復元する。
func ParseTaskID(taskID string) (noteID string, listIndex, itemIndex int, ok bool) {
	parts := strings.Split(taskID, taskIDSeparator)
	if len(parts) < 3 {
		return "", 0, 0, false
	}
	itemIndex, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || itemIndex < 0 {
		return "", 0, 0, false
	}
	listIndex, err = strconv.Atoi(parts[len(parts)-2])
	if err != nil || listIndex < 0 {
		return "", 0, 0, false
	}
	noteID = strings.Join(parts[:len(parts)-2], taskIDSeparator)
	if noteID == "" {
		return "", 0, 0, false
	}
	return noteID, listIndex, itemIndex, true
}

// ExtractTasks は本文中の全taskItemをドキュメント順に抽出する。
// パースできない本文は空リストを返す。
func ExtractTasks(content, noteID, noteTitle, notebookName string) []Task {
	doc, ok := parseDocument(content)
	if !ok {
		return nil
	}

	var tasks []Task
	for listIndex, node := range doc.Content {
		if node.Type != nodeTypeTaskList {
			continue
		}
		itemIndex := 0
		for _, item := range node.Content {
			if item.Type != nodeTypeTaskItem {
				continue
			}
			tasks = append(tasks, Task{
				ID:            TaskID(noteID, listIndex, itemIndex),
				NoteID:        noteID,
				NoteTitle:     noteTitle,
				NotebookName:  notebookName,
				Text:          nodeText(item),
				Checked:       checkedAttr(item),
				TaskListIndex: listIndex,
				TaskItemIndex: itemIndex,
			})
			itemIndex++
		}
	}
	return tasks
}

// ExtractItems は本文中のタスクと見出しをドキュメント順に抽出する。
func ExtractItems(content, noteID, noteTitle, notebookName string) []Item {
	doc, ok := parseDocument(content)
	if !ok {
		return nil
	}

	var items []Item
	for nodeIndex, node := range doc.Content {
		switch node.Type {
		case nodeTypeTaskList:
			itemIndex := 0
			for _, child := range node.Content {
				if child.Type != nodeTypeTaskItem {
					continue
				}
				items = append(items, Item{Task: &Task{
					ID:            TaskID(noteID, nodeIndex, itemIndex),
					NoteID:        noteID,
					NoteTitle:     noteTitle,
					NotebookName:  notebookName,
					Text:          nodeText(child),
					Checked:       checkedAttr(child),
					TaskListIndex: nodeIndex,
					TaskItemIndex: itemIndex,
				}})
				itemIndex++
			}
		case nodeTypeHeading:
			level := 2
			if v, ok := node.Attrs["level"].(float64); ok {
				level = int(v)
			}
			items = append(items, Item{Heading: &Heading{
				ID:        fmt.Sprintf("%s%sh%s%d", noteID, taskIDSeparator, taskIDSeparator, nodeIndex),
				NoteID:    noteID,
				NoteTitle: noteTitle,
				Text:      nodeText(node),
				Level:     level,
				NodeIndex: nodeIndex,
			}})
		}
	}
	return items
}

// ToggleTask は指定タスクのチェック状態を変更した本文を返す。
// 対象が見つからない場合はfalseを返し、本文は変更しない。
func ToggleTask(content string, listIndex, itemIndex int, checked bool) (string, bool) {
	doc, ok := parseDocument(content)
	if !ok {
		return content, false
	}
	if listIndex < 0 || listIndex >= len(doc.Content) {
		return content, false
	}
	taskList := &doc.Content[listIndex]
	if taskList.Type != nodeTypeTaskList || itemIndex < 0 || itemIndex >= len(taskList.Content) {
		return content, false
	}

	item := &taskList.Content[itemIndex]
	if item.Attrs == nil {
		item.Attrs = make(map[string]any)
	}
	item.Attrs["checked"] = checked

	return marshalDocument(doc, content), true
}

// AddTask は未チェックのtaskItemを末尾のtaskListに追加した本文を返す。
// taskListが存在しない場合はドキュメント末尾に新規作成する。
// 本文がパースできない場合は空のドキュメントから開始する。
func AddTask(content, text string) string {
	doc, ok := parseDocument(content)
	if !ok {
		doc = &Document{Type: nodeTypeDoc, Content: []Node{}}
	}

	newItem := Node{
		Type:  nodeTypeTaskItem,
		Attrs: map[string]any{"checked": false},
		Content: []Node{{
			Type:    nodeTypeParagraph,
			Content: []Node{{Type: nodeTypeText, Text: text}},
		}},
	}

	lastTaskList := -1
	for i, node := range doc.Content {
		if node.Type == nodeTypeTaskList {
			lastTaskList = i
		}
	}

	if lastTaskList == -1 {
		doc.Content = append(doc.Content, Node{Type: nodeTypeTaskList, Content: []Node{newItem}})
	} else {
		doc.Content[lastTaskList].Content = append(doc.Content[lastTaskList].Content, newItem)
	}

	return marshalDocument(doc, content)
}

// DeleteTask は指定タスクを取り除いた本文を返す。
// 対象が見つからない場合はfalseを返し、本文は変更しない。
func DeleteTask(content string, listIndex, itemIndex int) (string, bool) {
	doc, ok := parseDocument(content)
	if !ok {
		return content, false
	}
	if listIndex < 0 || listIndex >= len(doc.Content) {
		return content, false
	}
	taskList := &doc.Content[listIndex]
	if taskList.Type != nodeTypeTaskList || itemIndex < 0 || itemIndex >= len(taskList.Content) {
		return content, false
	}

	taskList.Content = append(taskList.Content[:itemIndex], taskList.Content[itemIndex+1:]...)

	return marshalDocument(doc, content), true
}

// ReorderTasks は同一taskList内でタスクを移動した本文を返す。
// いずれかのインデックスが範囲外の場合はfalseを返し、本文は変更しない。
func ReorderTasks(content string, listIndex, fromIndex, toIndex int) (string, bool) {
	doc, ok := parseDocument(content)
	if !ok {
		return content, false
	}
	if listIndex < 0 || listIndex >= len(doc.Content) {
		return content, false
	}
	taskList := &doc.Content[listIndex]
	if taskList.Type != nodeTypeTaskList {
		return content, false
	}
	n := len(taskList.Content)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return content, false
	}

	moved := taskList.Content[fromIndex]
	items := append(taskList.Content[:fromIndex:fromIndex], taskList.Content[fromIndex+1:]...)
	items = append(items[:toIndex], append([]Node{moved}, items[toIndex:]...)...)
	taskList.Content = items

	return marshalDocument(doc, content), true
}

func checkedAttr(item Node) bool {
	checked, _ := item.Attrs["checked"].(bool)
	return checked
}

// marshalDocument はドキュメントをJSON化する。失敗時は元の本文を返す。
func marshalDocument(doc *Document, fallback string) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return fallback
	}
	return string(data)
}
