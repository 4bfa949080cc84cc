// infra/graphql/operations.go
package graphql

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Operation is one pre-parsed query or mutation document. Documents are
// validated at package init so a malformed operation fails at startup, not
// on first use, and the operation name comes from the AST rather than the
// caller keeping two strings in sync.
type Operation struct {
	Name     string
	Document string
}

func mustOperation(document string) Operation {
	doc, err := parser.ParseQuery(&ast.Source{Input: document})
	if err != nil {
		panic(fmt.Sprintf("invalid graphql operation: %v", err))
	}
	if len(doc.Operations) != 1 || doc.Operations[0].Name == "" {
		panic("graphql operation must contain exactly one named operation")
	}
	return Operation{Name: doc.Operations[0].Name, Document: document}
}

var (
	opMyMemberships = mustOperation(`
    query MyMemberships {
      myMemberships {
        id
        userId
        schoolId
        branchId
        role
        status
        permissions
        title
      }
    }
  `)

	opSchoolByID = mustOperation(`
    query GetSchool($id: String!) {
      school(id: $id) {
        id
        name {
          en
          km
        }
        code
        schoolType
        status
        stats {
          totalStudents
          totalTeachers
          totalClasses
          totalBranches
        }
      }
    }
  `)

	opPendingSchools = mustOperation(`
    query PendingSchools {
      pendingSchools {
        id
        name {
          en
          km
        }
        status
      }
    }
  `)

	opStudentsByClass = mustOperation(`
    query StudentsByClass($classId: String!) {
      studentsByClass(classId: $classId) {
        id
        studentId
        fullName
        photoUrl
      }
    }
  `)

	opAttendanceByClass = mustOperation(`
    query AttendanceByClass($classId: String!, $date: String!) {
      attendanceByClass(classId: $classId, date: $date) {
        id
        studentId
        classId
        date
        status
        remarks
        markedBy
      }
    }
  `)

	opAttendanceByStudent = mustOperation(`
    query AttendanceByStudent($studentId: String!, $startDate: String, $endDate: String) {
      attendanceByStudent(studentId: $studentId, startDate: $startDate, endDate: $endDate) {
        id
        studentId
        classId
        date
        status
        remarks
        markedBy
      }
    }
  `)

	opAttendanceSummary = mustOperation(`
    query AttendanceSummaryByClass($classId: String!, $month: Int!, $year: Int!) {
      attendanceSummaryByClass(classId: $classId, month: $month, year: $year) {
        totalDays
        presentCount
        absentCount
        lateCount
        excusedCount
        attendanceRate
      }
    }
  `)

	opMarkAttendance = mustOperation(`
    mutation MarkAttendance($input: AttendanceInput!) {
      markAttendance(input: $input) {
        id
        studentId
        classId
        date
        status
        remarks
        markedBy
      }
    }
  `)

	opMarkBulkAttendance = mustOperation(`
    mutation MarkBulkAttendance($classId: String!, $date: String!, $markedBy: String!, $records: [AttendanceRecordInput!]!) {
      markBulkAttendance(classId: $classId, date: $date, markedBy: $markedBy, records: $records) {
        success
        count
      }
    }
  `)

	opUpdateAttendance = mustOperation(`
    mutation UpdateAttendance($id: String!, $status: String!, $remarks: String) {
      updateAttendance(id: $id, status: $status, remarks: $remarks) {
        id
        studentId
        classId
        date
        status
        remarks
        markedBy
      }
    }
  `)

	opAddMember = mustOperation(`
    mutation AddMember($input: AddMemberInput!) {
      addMember(input: $input) {
        id
        userId
        schoolId
        branchId
        role
        status
        permissions
        title
      }
    }
  `)

	opUpdateMemberRole = mustOperation(`
    mutation UpdateMemberRole($id: String!, $role: String!) {
      updateMemberRole(id: $id, role: $role) {
        id
        userId
        schoolId
        branchId
        role
        status
        permissions
        title
      }
    }
  `)

	opRemoveMember = mustOperation(`
    mutation RemoveMember($id: String!) {
      removeMember(id: $id)
    }
  `)

	opSearchUser = mustOperation(`
    query SearchUser($query: String!) {
      searchUser(query: $query) {
        idStr
        displayName
        email
      }
    }
  `)
)
